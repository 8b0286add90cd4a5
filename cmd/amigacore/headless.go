package main

import (
	"fmt"
	"os"
	"sync"
	"syscall"
	"time"

	"golang.org/x/term"
)

// RunHeadless drives the machine without opening a window, reading
// keystrokes from a raw-mode stdin the same way the teacher's
// TerminalHost does, and writing a screenshot on exit when configured.
func (rt *Runtime) RunHeadless() error {
	if err := rt.runScriptIfConfigured(); err != nil {
		return err
	}

	console, err := newConsoleInput()
	if err != nil {
		fmt.Fprintf(os.Stderr, "headless: stdin not a terminal, running without live input: %v\n", err)
	} else {
		console.Start()
		defer console.Stop()
	}

	for {
		if console != nil {
			for _, key := range console.Drain() {
				if key == 0x03 || key == 0x1B { // Ctrl+C or ESC
					return rt.writeScreenshotIfConfigured()
				}
				rt.Machine.KeyEvent(key, true)
				rt.Machine.KeyEvent(key, false)
			}
		}
		if !rt.stepFrame() {
			break
		}
	}
	return rt.writeScreenshotIfConfigured()
}

// consoleInput reads raw stdin bytes into a small queue, non-blocking,
// mirroring the teacher's non-blocking syscall.Read loop but buffering
// to a slice instead of routing into an MMIO device.
type consoleInput struct {
	fd       int
	oldState *term.State

	mu      sync.Mutex
	pending []byte

	stopCh chan struct{}
	done   chan struct{}
	once   sync.Once
}

func newConsoleInput() (*consoleInput, error) {
	fd := int(os.Stdin.Fd())
	if !term.IsTerminal(fd) {
		return nil, fmt.Errorf("fd %d is not a terminal", fd)
	}
	old, err := term.MakeRaw(fd)
	if err != nil {
		return nil, err
	}
	if err := syscall.SetNonblock(fd, true); err != nil {
		_ = term.Restore(fd, old)
		return nil, err
	}
	return &consoleInput{
		fd:       fd,
		oldState: old,
		stopCh:   make(chan struct{}),
		done:     make(chan struct{}),
	}, nil
}

func (c *consoleInput) Start() {
	go func() {
		defer close(c.done)
		buf := make([]byte, 1)
		for {
			select {
			case <-c.stopCh:
				return
			default:
			}
			n, err := syscall.Read(c.fd, buf)
			if n > 0 {
				c.mu.Lock()
				c.pending = append(c.pending, buf[0])
				c.mu.Unlock()
			}
			if err == syscall.EAGAIN || err == syscall.EWOULDBLOCK || n == 0 {
				time.Sleep(5 * time.Millisecond)
				continue
			}
			if err != nil {
				return
			}
		}
	}()
}

func (c *consoleInput) Drain() []byte {
	c.mu.Lock()
	defer c.mu.Unlock()
	if len(c.pending) == 0 {
		return nil
	}
	out := c.pending
	c.pending = nil
	return out
}

func (c *consoleInput) Stop() {
	c.once.Do(func() { close(c.stopCh) })
	<-c.done
	_ = syscall.SetNonblock(c.fd, false)
	_ = term.Restore(c.fd, c.oldState)
}
