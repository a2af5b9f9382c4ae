package interaction

import (
	"os"

	"golang.org/x/sys/unix"
)

// KeyboardReader handles keyboard input in raw mode
type KeyboardReader struct {
	oldState *unix.Termios
	input    chan KeyEvent
	stop     chan struct{}
}

// KeyEvent represents a keyboard event
type KeyEvent struct {
	Key  rune
	Type KeyType
}

// KeyType represents the type of key pressed
type KeyType int

const (
	KeyChar KeyType = iota
	KeyEscape
	KeyEnter
	KeyBackspace
	KeyUp
	KeyDown
	KeyLeft
	KeyRight
	KeyPageUp
	KeyPageDown
	KeyHome
	KeyEnd
)

// NewKeyboardReader creates a new keyboard reader
func NewKeyboardReader() (*KeyboardReader, error) {
	kr := &KeyboardReader{
		input: make(chan KeyEvent, 10),
		stop:  make(chan struct{}),
	}

	// Set terminal to raw mode
	if err := kr.enableRawMode(); err != nil {
		return nil, err
	}

	// Start reading keyboard input
	go kr.readInput()

	return kr, nil
}

// readInput reads keyboard input in a goroutine
func (kr *KeyboardReader) readInput() {
	// Large enough for a full CSI sequence (ESC [ 5 ~)
	buf := make([]byte, 8)

	for {
		select {
		case <-kr.stop:
			return
		default:
			n, err := os.Stdin.Read(buf)
			if err != nil {
				continue
			}

			if n == 0 {
				continue
			}

			event := kr.parseInput(buf[:n])
			if event != nil {
				select {
				case kr.input <- *event:
				case <-kr.stop:
					return
				}
			}
		}
	}
}

// parseInput parses raw keyboard input. Escape sequences arrive in one read
// in raw mode, so the whole buffer is inspected at once.
func (kr *KeyboardReader) parseInput(buf []byte) *KeyEvent {
	if len(buf) == 0 {
		return nil
	}

	switch buf[0] {
	case 27: // ESC
		return kr.parseEscape(buf)
	case '\r', '\n':
		return &KeyEvent{Key: '\r', Type: KeyEnter}
	case 127, 8: // DEL and BS both mean backspace in raw mode
		return &KeyEvent{Key: 127, Type: KeyBackspace}
	}

	// Regular characters, including control chars like Ctrl+C (3)
	return &KeyEvent{Key: rune(buf[0]), Type: KeyChar}
}

func (kr *KeyboardReader) parseEscape(buf []byte) *KeyEvent {
	if len(buf) == 1 {
		return &KeyEvent{Key: 27, Type: KeyEscape}
	}

	// CSI sequences: ESC [ ...
	if buf[1] == '[' && len(buf) >= 3 {
		switch buf[2] {
		case 'A':
			return &KeyEvent{Type: KeyUp}
		case 'B':
			return &KeyEvent{Type: KeyDown}
		case 'C':
			return &KeyEvent{Type: KeyRight}
		case 'D':
			return &KeyEvent{Type: KeyLeft}
		case 'H':
			return &KeyEvent{Type: KeyHome}
		case 'F':
			return &KeyEvent{Type: KeyEnd}
		case '1':
			if len(buf) >= 4 && buf[3] == '~' {
				return &KeyEvent{Type: KeyHome}
			}
		case '4':
			if len(buf) >= 4 && buf[3] == '~' {
				return &KeyEvent{Type: KeyEnd}
			}
		case '5':
			if len(buf) >= 4 && buf[3] == '~' {
				return &KeyEvent{Type: KeyPageUp}
			}
		case '6':
			if len(buf) >= 4 && buf[3] == '~' {
				return &KeyEvent{Type: KeyPageDown}
			}
		}
		return nil
	}

	// SS3 sequences: ESC O ... (application cursor mode)
	if buf[1] == 'O' && len(buf) >= 3 {
		switch buf[2] {
		case 'A':
			return &KeyEvent{Type: KeyUp}
		case 'B':
			return &KeyEvent{Type: KeyDown}
		case 'C':
			return &KeyEvent{Type: KeyRight}
		case 'D':
			return &KeyEvent{Type: KeyLeft}
		case 'H':
			return &KeyEvent{Type: KeyHome}
		case 'F':
			return &KeyEvent{Type: KeyEnd}
		}
		return nil
	}

	return nil
}

// Events returns the keyboard event channel
func (kr *KeyboardReader) Events() <-chan KeyEvent {
	return kr.input
}

// Close stops the keyboard reader and restores terminal
func (kr *KeyboardReader) Close() error {
	close(kr.stop)
	return kr.disableRawMode()
}
