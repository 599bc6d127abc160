package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"

	"netpong/internal/config"
	"netpong/internal/netwrk"
	"netpong/internal/renderer"
	"netpong/internal/session"
)

func main() {
	path := ""
	if len(os.Args) > 1 {
		path = os.Args[1]
	}
	if err := config.LoadConfig(path); err != nil {
		config.Exitf("load config: %v", err)
	}
	slog.SetLogLoggerLevel(slog.Level(config.Config.LogLevel))

	if err := run(config.Config); err != nil {
		config.Exitf("netpong: %v", err)
	}
}

func run(cfg config.Configuration) error {
	fmt.Println("Welcome to netpong!")

	input := bufio.NewReader(os.Stdin)
	isServer, err := prompt(input, "Server: Y/N")
	if err != nil {
		return err
	}
	ip, err := prompt(input, "Enter ip for game:")
	if err != nil {
		return err
	}
	role := session.Participant
	if strings.EqualFold(isServer, "Y") {
		role = session.Authority
	}
	addr := net.JoinHostPort(ip, strconv.Itoa(cfg.Port))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	conn, err := connect(ctx, role, addr, netwrk.Options{MaxRead: cfg.MaxRead})
	if err != nil {
		return err
	}

	// The terminal belongs to the game from here on, so logs go to a file.
	if cfg.LogFile != "" {
		f, err := os.OpenFile(cfg.LogFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			conn.Close()
			return fmt.Errorf("open log file: %w", err)
		}
		defer f.Close()
		slog.SetDefault(slog.New(slog.NewTextHandler(f, &slog.HandlerOptions{Level: slog.Level(cfg.LogLevel)})))
	}

	s := session.New(role, conn, session.Options{
		PaddleSpeed: cfg.PaddleSpeed,
		Logger:      slog.With(slog.String("session", conn.ID.String())),
	})

	term := renderer.Stdio()
	if err := term.EnterRaw(); err != nil {
		conn.Close()
		return err
	}
	defer term.Close()

	pacer := renderer.NewTicker(cfg.TickRate)
	defer pacer.Stop()

	err = s.Run(ctx, term, pacer)
	if errors.Is(err, context.Canceled) {
		return nil
	}
	return err
}

func connect(ctx context.Context, role session.Role, addr string, opts netwrk.Options) (*netwrk.Conn, error) {
	if role == session.Authority {
		fmt.Printf("binding server to %s\n", addr)
		fmt.Println("waiting for connections...")
		return netwrk.ListenAndAccept(ctx, addr, opts)
	}
	fmt.Printf("trying to connect to: %s\n", addr)
	return netwrk.Dial(ctx, addr, opts)
}

func prompt(r *bufio.Reader, question string) (string, error) {
	fmt.Println(question)
	line, err := r.ReadString('\n')
	if err != nil && !(errors.Is(err, io.EOF) && line != "") {
		return "", fmt.Errorf("read input: %w", err)
	}
	return strings.TrimSpace(line), nil
}
