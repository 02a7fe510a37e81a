// Package sshterm serves the portfolio terminal over SSH.
package sshterm

import (
	"context"
	"crypto/ed25519"
	"crypto/rand"
	"crypto/x509"
	"encoding/binary"
	"encoding/pem"
	"errors"
	"fmt"
	"io"
	"net"
	"os"
	"strings"

	"go.uber.org/zap"
	"golang.org/x/crypto/ssh"

	"github.com/Zachkp/cosmic-portfolio/internal/logging"
	"github.com/Zachkp/cosmic-portfolio/internal/shell"
	"github.com/Zachkp/cosmic-portfolio/internal/terminal"
)

// Config wires the server to the rest of the application.
type Config struct {
	// NewTerminal builds a terminal whose events go to sink.
	NewTerminal func(sink terminal.Sink) *terminal.Terminal
	// Exec runs a single non-interactive command (ssh host <command>).
	Exec     func(line string) shell.Result
	HostKey  ssh.Signer
	MaxConns int
	// BaseURL prefixes image and navigation targets, e.g. https://cosmic.dev.
	BaseURL string
	// OnSession is told when a session starts (+1) and ends (-1).
	OnSession func(delta int)
}

// Server accepts SSH connections and gives each shell its own terminal.
type Server struct {
	cfg    Config
	sshCfg *ssh.ServerConfig
}

func New(cfg Config) *Server {
	if cfg.MaxConns <= 0 {
		cfg.MaxConns = 64
	}
	sshCfg := &ssh.ServerConfig{
		NoClientAuth:  true,
		ServerVersion: "SSH-2.0-cosmic",
	}
	sshCfg.AddHostKey(cfg.HostKey)
	return &Server{cfg: cfg, sshCfg: sshCfg}
}

// LoadOrGenerateHostKey reads a PEM host key from path, creating one if the
// file does not exist.
func LoadOrGenerateHostKey(path string) (ssh.Signer, error) {
	data, err := os.ReadFile(path)
	if err == nil {
		signer, err := ssh.ParsePrivateKey(data)
		if err != nil {
			return nil, fmt.Errorf("parse host key %s: %w", path, err)
		}
		return signer, nil
	}
	if !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("read host key: %w", err)
	}

	_, key, err := ed25519.GenerateKey(rand.Reader)
	if err != nil {
		return nil, err
	}
	der, err := x509.MarshalPKCS8PrivateKey(key)
	if err != nil {
		return nil, err
	}
	if err := os.WriteFile(path, pem.EncodeToMemory(&pem.Block{Type: "PRIVATE KEY", Bytes: der}), 0600); err != nil {
		return nil, fmt.Errorf("write host key: %w", err)
	}
	logging.Info("generated ssh host key", zap.String("path", path))
	return ssh.NewSignerFromKey(key)
}

// Serve accepts connections on ln until ctx is done.
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	go func() {
		<-ctx.Done()
		ln.Close()
	}()

	sem := make(chan struct{}, s.cfg.MaxConns)
	for {
		conn, err := ln.Accept()
		if err != nil {
			if ctx.Err() != nil {
				return nil
			}
			return err
		}
		select {
		case sem <- struct{}{}:
			go func() {
				defer func() { <-sem }()
				s.handleConn(conn)
			}()
		default:
			logging.Warn("ssh connection limit reached", zap.String("remote", conn.RemoteAddr().String()))
			conn.Close()
		}
	}
}

func (s *Server) handleConn(conn net.Conn) {
	defer conn.Close()

	sshConn, chans, reqs, err := ssh.NewServerConn(conn, s.sshCfg)
	if err != nil {
		logging.Debug("ssh handshake failed", zap.Error(err))
		return
	}
	defer sshConn.Close()
	go ssh.DiscardRequests(reqs)

	remote := sshConn.RemoteAddr().String()
	logging.Info("ssh connected", zap.String("remote", remote), zap.String("user", sshConn.User()))

	for newChan := range chans {
		if newChan.ChannelType() != "session" {
			newChan.Reject(ssh.UnknownChannelType, "unknown channel type") //nolint:errcheck
			continue
		}
		ch, chReqs, err := newChan.Accept()
		if err != nil {
			break
		}
		s.handleSession(ch, chReqs)
	}
	logging.Info("ssh disconnected", zap.String("remote", remote))
}

func (s *Server) handleSession(ch ssh.Channel, reqs <-chan *ssh.Request) {
	defer ch.Close()

	for req := range reqs {
		switch req.Type {
		case "pty-req", "env", "window-change":
			req.Reply(true, nil) //nolint:errcheck
		case "shell":
			req.Reply(true, nil) //nolint:errcheck
			go ssh.DiscardRequests(reqs)
			s.runShell(ch)
			return
		case "exec":
			req.Reply(true, nil) //nolint:errcheck
			s.runExec(ch, execPayload(req.Payload))
			return
		default:
			if req.WantReply {
				req.Reply(false, nil) //nolint:errcheck
			}
		}
	}
}

func (s *Server) runShell(ch ssh.Channel) {
	if s.cfg.OnSession != nil {
		s.cfg.OnSession(1)
		defer s.cfg.OnSession(-1)
	}

	term := s.cfg.NewTerminal(&ansiSink{w: ch, baseURL: s.cfg.BaseURL})
	term.Open()
	defer term.Close()

	var dec keyDecoder
	buf := make([]byte, 256)
	for {
		n, err := ch.Read(buf)
		for _, b := range buf[:n] {
			k, ok, hangup := dec.feed(b)
			if hangup {
				io.WriteString(ch, "\r\nlogout\r\n") //nolint:errcheck
				return
			}
			if !ok {
				continue
			}
			term.HandleKey(k)
			if term.State() == terminal.Closed {
				sendExitStatus(ch, 0)
				return
			}
		}
		if err != nil {
			return
		}
	}
}

func (s *Server) runExec(ch ssh.Channel, line string) {
	res := s.cfg.Exec(line)
	out := res.Output()
	if res.Image != nil {
		out = append(out, s.cfg.BaseURL+res.Image.URL)
	}
	if res.Navigate != "" {
		out = append(out, "Redirecting to "+s.cfg.BaseURL+"/"+strings.TrimPrefix(res.Navigate, "/"))
	}
	if len(out) > 0 {
		io.WriteString(ch, strings.Join(out, "\r\n")+"\r\n") //nolint:errcheck
	}
	status := uint32(0)
	if res.Err != nil {
		status = 1
	}
	sendExitStatus(ch, status)
}

func sendExitStatus(ch ssh.Channel, status uint32) {
	payload := make([]byte, 4)
	binary.BigEndian.PutUint32(payload, status)
	ch.SendRequest("exit-status", false, payload) //nolint:errcheck
}

func execPayload(p []byte) string {
	if len(p) < 4 {
		return ""
	}
	n := binary.BigEndian.Uint32(p[:4])
	if int(n) > len(p)-4 {
		return ""
	}
	return string(p[4 : 4+n])
}
