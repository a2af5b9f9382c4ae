package e2e

import (
	"fmt"
	"os"
	"os/exec"
	"regexp"
	"strings"
	"sync"
	"time"

	"github.com/creack/pty"
)

// Key sequences understood by the inspector, for use with Send.
const (
	KeyEnter = "\r"
	KeyEsc   = "\x1b"
	KeyUp    = "\x1b[A"
	KeyDown  = "\x1b[B"
	KeyRight = "\x1b[C"
	KeyLeft  = "\x1b[D"
	KeySpace = " "
	KeyCtrlC = "\x03"
)

const pollInterval = 50 * time.Millisecond

// InspectorConfig describes how to launch an inspector binary for a test.
type InspectorConfig struct {
	BinaryPath string
	Args       []string
	Width      int
	Height     int
	Env        []string
}

// InspectorSession drives a real inspector process through a pseudo
// terminal and lets tests observe the screen it draws.
type InspectorSession struct {
	cmd    *exec.Cmd
	ptmx   *os.File
	width  int
	height int

	mu     sync.Mutex
	output strings.Builder

	done    chan struct{}
	stopped bool
}

// StartInspector launches the binary under a pty sized per the config.
func StartInspector(config InspectorConfig) (*InspectorSession, error) {
	if config.Width <= 0 {
		config.Width = 120
	}
	if config.Height <= 0 {
		config.Height = 30
	}

	cmd := exec.Command(config.BinaryPath, config.Args...)
	cmd.Env = append(os.Environ(), "TERM=xterm-256color")
	cmd.Env = append(cmd.Env, config.Env...)

	ptmx, err := pty.StartWithSize(cmd, &pty.Winsize{
		Rows: uint16(config.Height),
		Cols: uint16(config.Width),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to start inspector: %w", err)
	}

	s := &InspectorSession{
		cmd:    cmd,
		ptmx:   ptmx,
		width:  config.Width,
		height: config.Height,
		done:   make(chan struct{}),
	}
	go s.capture()
	return s, nil
}

// capture drains the pty until the process side closes it.
func (s *InspectorSession) capture() {
	defer close(s.done)
	buf := make([]byte, 4096)
	for {
		n, err := s.ptmx.Read(buf)
		if n > 0 {
			s.mu.Lock()
			s.output.Write(buf[:n])
			s.mu.Unlock()
		}
		if err != nil {
			return
		}
	}
}

// Send writes keystrokes to the inspector's terminal.
func (s *InspectorSession) Send(keys string) error {
	_, err := s.ptmx.WriteString(keys)
	return err
}

// Output returns everything the inspector has written so far.
func (s *InspectorSession) Output() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.output.String()
}

// CleanOutput returns the captured output with escape sequences stripped.
func (s *InspectorSession) CleanOutput() string {
	return StripANSI(s.Output())
}

// Screen parses the captured output into the grid the user currently sees.
func (s *InspectorSession) Screen() *VirtualScreen {
	return ParseScreen(s.Output(), s.width, s.height)
}

// WaitFor polls the screen until text appears or the timeout elapses.
func (s *InspectorSession) WaitFor(text string, timeout time.Duration) error {
	deadline := time.Now().Add(timeout)
	for time.Now().Before(deadline) {
		if s.Screen().Contains(text) {
			return nil
		}
		select {
		case <-s.done:
			// One final look: the text may have landed with the exit.
			if s.Screen().Contains(text) {
				return nil
			}
			return fmt.Errorf("inspector exited before %q appeared\nscreen:\n%s", text, s.Screen().Render())
		case <-time.After(pollInterval):
		}
	}
	return fmt.Errorf("timed out after %v waiting for %q\nscreen:\n%s", timeout, text, s.Screen().Render())
}

// WaitForPattern polls the screen until the regular expression matches.
func (s *InspectorSession) WaitForPattern(pattern string, timeout time.Duration) error {
	re, err := regexp.Compile(pattern)
	if err != nil {
		return fmt.Errorf("invalid pattern %q: %w", pattern, err)
	}
	deadline := time.Now().Add(timeout)
	for time.Now().Before(deadline) {
		if re.MatchString(s.Screen().Render()) {
			return nil
		}
		time.Sleep(pollInterval)
	}
	return fmt.Errorf("timed out after %v waiting for pattern %q\nscreen:\n%s", timeout, pattern, s.Screen().Render())
}

// WaitForExit blocks until the process finishes or the timeout elapses.
func (s *InspectorSession) WaitForExit(timeout time.Duration) error {
	select {
	case <-s.done:
		return nil
	case <-time.After(timeout):
		return fmt.Errorf("inspector still running after %v", timeout)
	}
}

// Quit asks the inspector to exit with its quit key and reaps the process.
// If it does not exit in time the process is killed.
func (s *InspectorSession) Quit() error {
	if s.stopped {
		return nil
	}
	s.stopped = true

	_ = s.Send("q")
	select {
	case <-s.done:
	case <-time.After(3 * time.Second):
		if s.cmd.Process != nil {
			_ = s.cmd.Process.Kill()
		}
		<-s.done
	}
	_ = s.ptmx.Close()
	return s.cmd.Wait()
}

// Kill terminates the process without a clean shutdown.
func (s *InspectorSession) Kill() {
	if s.stopped {
		return
	}
	s.stopped = true

	if s.cmd.Process != nil {
		_ = s.cmd.Process.Kill()
	}
	_ = s.ptmx.Close()
	<-s.done
	_ = s.cmd.Wait()
}
