package sshterm

import (
	"bytes"
	"context"
	"io"
	"net"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/ssh"

	"github.com/Zachkp/cosmic-portfolio/internal/boot"
	"github.com/Zachkp/cosmic-portfolio/internal/shell"
	"github.com/Zachkp/cosmic-portfolio/internal/terminal"
	"github.com/Zachkp/cosmic-portfolio/internal/vfs"
)

type syncBuffer struct {
	mu sync.Mutex
	b  bytes.Buffer
}

func (s *syncBuffer) Write(p []byte) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.b.Write(p)
}

func (s *syncBuffer) String() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.b.String()
}

func startServer(t *testing.T) string {
	t.Helper()
	key, err := LoadOrGenerateHostKey(filepath.Join(t.TempDir(), "host_key"))
	require.NoError(t, err)

	interp := shell.New(vfs.Portfolio())
	srv := New(Config{
		NewTerminal: func(sink terminal.Sink) *terminal.Terminal {
			return terminal.New(interp, terminal.WithSink(sink), terminal.WithScript(boot.Scale(boot.Script, 0)))
		},
		Exec: func(line string) shell.Result {
			return interp.Execute(shell.NewState(), line)
		},
		HostKey: key,
		BaseURL: "https://cosmic.dev",
	})

	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)
	go srv.Serve(ctx, ln) //nolint:errcheck
	return ln.Addr().String()
}

func dial(t *testing.T, addr string) *ssh.Client {
	t.Helper()
	client, err := ssh.Dial("tcp", addr, &ssh.ClientConfig{
		User:            "visitor",
		HostKeyCallback: ssh.InsecureIgnoreHostKey(),
		Timeout:         5 * time.Second,
	})
	require.NoError(t, err)
	t.Cleanup(func() { client.Close() })
	return client
}

func TestExec(t *testing.T) {
	client := dial(t, startServer(t))
	sess, err := client.NewSession()
	require.NoError(t, err)
	defer sess.Close()

	out, err := sess.Output("pwd")
	require.NoError(t, err)
	assert.Equal(t, "/home/cosmic/portfolio\r\n", string(out))
}

func TestExecFailureExitStatus(t *testing.T) {
	client := dial(t, startServer(t))
	sess, err := client.NewSession()
	require.NoError(t, err)
	defer sess.Close()

	out, err := sess.Output("cat nosuch.txt")
	var exitErr *ssh.ExitError
	require.ErrorAs(t, err, &exitErr)
	assert.Equal(t, 1, exitErr.ExitStatus())
	assert.Equal(t, "cat: nosuch.txt: No such file\r\n", string(out))
}

func TestInteractiveShell(t *testing.T) {
	client := dial(t, startServer(t))
	sess, err := client.NewSession()
	require.NoError(t, err)
	defer sess.Close()

	require.NoError(t, sess.RequestPty("xterm", 24, 80, ssh.TerminalModes{}))
	stdin, err := sess.StdinPipe()
	require.NoError(t, err)
	out := &syncBuffer{}
	sess.Stdout = out
	require.NoError(t, sess.Shell())

	require.Eventually(t, func() bool {
		return strings.Contains(out.String(), "cosmic@portfolio:~/portfolio$ ")
	}, 5*time.Second, 5*time.Millisecond)
	assert.Contains(t, out.String(), "\x1b[32mOK\x1b[0m")

	_, err = io.WriteString(stdin, "whoami\r")
	require.NoError(t, err)
	require.Eventually(t, func() bool {
		return strings.Contains(out.String(), "cosmic\r\n")
	}, 5*time.Second, 5*time.Millisecond)

	_, err = io.WriteString(stdin, "git checkout a3f9c22\r")
	require.NoError(t, err)
	require.Eventually(t, func() bool {
		return strings.Contains(out.String(), "Redirecting to https://cosmic.dev/home.html")
	}, 5*time.Second, 5*time.Millisecond)
	assert.NoError(t, sess.Wait())
}

func TestLoadOrGenerateHostKeyReuses(t *testing.T) {
	path := filepath.Join(t.TempDir(), "key")
	first, err := LoadOrGenerateHostKey(path)
	require.NoError(t, err)
	second, err := LoadOrGenerateHostKey(path)
	require.NoError(t, err)
	assert.Equal(t, first.PublicKey().Marshal(), second.PublicKey().Marshal())
}
