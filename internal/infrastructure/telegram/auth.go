package telegram

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"sync"

	"github.com/gotd/td/telegram/auth"
	"github.com/gotd/td/tg"
	"github.com/gotd/td/tgerr"
)

// Prompt provides interactive login secrets
type Prompt interface {
	Code(ctx context.Context) (string, error)
	Password(ctx context.Context) (string, error)
}

// ConsolePrompt reads login secrets line by line from a reader
type ConsolePrompt struct {
	mu  sync.Mutex
	in  *bufio.Reader
	out io.Writer
}

// NewConsolePrompt creates a prompt reading from in and writing questions to out
func NewConsolePrompt(in io.Reader, out io.Writer) *ConsolePrompt {
	return &ConsolePrompt{in: bufio.NewReader(in), out: out}
}

// Code asks for the login code sent by Telegram
func (p *ConsolePrompt) Code(ctx context.Context) (string, error) {
	return p.readLine(ctx, "Enter authentication code: ")
}

// Password asks for the 2FA password
func (p *ConsolePrompt) Password(ctx context.Context) (string, error) {
	return p.readLine(ctx, "Enter 2FA password: ")
}

func (p *ConsolePrompt) readLine(ctx context.Context, question string) (string, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	fmt.Fprint(p.out, question)

	type result struct {
		line string
		err  error
	}
	done := make(chan result, 1)

	go func() {
		line, err := p.in.ReadString('\n')
		if err != nil && !(errors.Is(err, io.EOF) && line != "") {
			done <- result{err: fmt.Errorf("failed to read input: %w", err)}
			return
		}
		done <- result{line: strings.TrimSpace(line)}
	}()

	select {
	case r := <-done:
		return r.line, r.err
	case <-ctx.Done():
		return "", fmt.Errorf("input cancelled: %w", ctx.Err())
	}
}

// promptAuthenticator implements auth.UserAuthenticator for an existing account
type promptAuthenticator struct {
	phone  string
	prompt Prompt
	onCode func(sentCode *tg.AuthSentCode)
}

func (a promptAuthenticator) Phone(context.Context) (string, error) {
	return a.phone, nil
}

func (a promptAuthenticator) Password(ctx context.Context) (string, error) {
	return a.prompt.Password(ctx)
}

func (a promptAuthenticator) Code(ctx context.Context, sentCode *tg.AuthSentCode) (string, error) {
	if a.onCode != nil {
		a.onCode(sentCode)
	}
	return a.prompt.Code(ctx)
}

func (a promptAuthenticator) AcceptTermsOfService(context.Context, tg.HelpTermsOfService) error {
	return errors.New("terms of service acceptance is not supported, sign up manually")
}

func (a promptAuthenticator) SignUp(context.Context) (auth.UserInfo, error) {
	return auth.UserInfo{}, errors.New("sign up is not supported, the phone must belong to an existing account")
}

var _ auth.UserAuthenticator = promptAuthenticator{}

// isNonRetryableError checks if an authentication error should fail immediately
func isNonRetryableError(err error) bool {
	return tgerr.Is(err,
		"PHONE_NUMBER_BANNED",
		"PHONE_NUMBER_INVALID",
		"API_ID_INVALID",
		"API_ID_PUBLISHED_FLOOD",
		"AUTH_TOKEN_INVALID",
		"PASSWORD_HASH_INVALID",
	)
}
