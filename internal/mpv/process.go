package mpv

import (
	"fmt"
	"os"
	"os/exec"
	"syscall"
	"time"

	"github.com/charmbracelet/log"
)

// Process is a running mpv instance and its IPC socket.
type Process struct {
	cmd        *exec.Cmd
	socketPath string
	client     *Client
}

// Launch starts mpv with the given arguments plus an --input-ipc-server
// socket, waits for the socket to come up, and connects a Client to it.
// The caller owns the returned process and must call Stop.
func Launch(socketPath string, args []string) (*Process, error) {
	args = append([]string{"--input-ipc-server=" + socketPath}, args...)

	cmd := exec.Command("mpv", args...)
	// Own process group so Stop can take the whole tree down.
	cmd.SysProcAttr = &syscall.SysProcAttr{Setpgid: true}

	if err := cmd.Start(); err != nil {
		return nil, fmt.Errorf("starting mpv: %w", err)
	}

	client, err := Dial(socketPath, 5*time.Second)
	if err != nil {
		_ = cmd.Process.Kill()
		_ = cmd.Wait()
		return nil, err
	}

	log.Debugf("mpv started, pid %d, socket %s", cmd.Process.Pid, socketPath)

	return &Process{cmd: cmd, socketPath: socketPath, client: client}, nil
}

// Client returns the IPC client for this process.
func (p *Process) Client() *Client {
	return p.client
}

// Pid returns the mpv process id.
func (p *Process) Pid() int {
	return p.cmd.Process.Pid
}

// Exited reports whether the mpv process has already terminated.
func (p *Process) Exited() bool {
	return p.cmd.ProcessState != nil
}

// Stop asks mpv to quit, falls back to killing the process group, reaps
// the process and removes the socket. Safe to call once per process.
func (p *Process) Stop() {
	if _, err := p.client.Command("quit"); err != nil {
		log.Debugf("mpv quit command failed, killing pid %d: %v", p.cmd.Process.Pid, err)
		_ = syscall.Kill(-p.cmd.Process.Pid, syscall.SIGTERM)
	}
	_ = p.client.Close()

	done := make(chan struct{})
	go func() {
		_ = p.cmd.Wait()
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(3 * time.Second):
		_ = syscall.Kill(-p.cmd.Process.Pid, syscall.SIGKILL)
		<-done
	}

	_ = os.Remove(p.socketPath)
}
