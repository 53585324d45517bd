// Package core drives the Godel Terminal web app: login, layout
// selection, the command palette, and the window lifecycle every
// command scraper builds on.
package core

import (
	"context"
	"fmt"
	"net/http/cookiejar"
	"net/url"
	"time"

	"godelterm/lib/browser"
	"godelterm/lib/restyutil"
	"godelterm/lib/telemetry"

	cloudflarebp "github.com/DaRealFreak/cloudflare-bp-go"
	"github.com/go-resty/resty/v2"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
)

var tracer = otel.Tracer("scrapers/godel/core")

var LoginFailed = fmt.Errorf("Failed to login to your account.")

const (
	loginButtonXPath = `//button[text()='Login']`
	usernameSelector = `input[autocomplete='username']`
	passwordSelector = `input[autocomplete='current-password']`
	terminalInput    = `#terminal-input`
)

type Config struct {
	BaseUrl  string `json:"base_url"`
	Email    string `json:"email"`
	Password string `json:"password"`
	// layout to load after login, empty keeps the default
	Layout  string         `json:"layout"`
	Browser browser.Config `json:"browser"`
}

type Session struct {
	BaseUrl *url.URL
	Browser *browser.Browser
	config  Config
}

func NewSession(ctx context.Context, config Config) (*Session, error) {
	ctx, span := tracer.Start(ctx, "NewSession")
	defer span.End()

	baseUrl, err := url.Parse(config.BaseUrl)
	if err != nil {
		return nil, err
	}

	b, err := browser.Start(ctx, config.Browser)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to start browser")
		return nil, err
	}

	err = b.Navigate(ctx, config.BaseUrl)
	if err != nil {
		b.Close()
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to open terminal app")
		return nil, err
	}

	return &Session{
		BaseUrl: baseUrl,
		Browser: b,
		config:  config,
	}, nil
}

func (s *Session) Close() {
	s.Browser.Close()
}

// Login authenticates through the login modal, then loads the
// configured layout when one is set.
func (s *Session) Login(ctx context.Context) error {
	ctx, span := tracer.Start(ctx, "Login")
	defer span.End()

	err := s.Browser.WaitVisibleXPath(ctx, loginButtonXPath, time.Second*10)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "login button never appeared")
		return LoginFailed
	}
	err = s.Browser.ClickXPath(ctx, loginButtonXPath)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to open login form")
		return LoginFailed
	}

	err = s.Browser.WaitVisible(ctx, usernameSelector, time.Second*10)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "login form never appeared")
		return LoginFailed
	}
	err = s.Browser.SendKeys(ctx, usernameSelector, s.config.Email)
	if err != nil {
		return err
	}
	err = s.Browser.SendKeys(ctx, passwordSelector, s.config.Password)
	if err != nil {
		return err
	}
	err = s.Browser.PressEnter(ctx)
	if err != nil {
		return err
	}

	// the app re-renders the workspace after auth
	time.Sleep(time.Second * 3)

	if s.config.Layout != "" {
		err = s.LoadLayout(ctx, s.config.Layout)
		if err != nil {
			return err
		}
	}
	return nil
}

// LoadLayout clicks a saved layout by its name in the layout bar.
func (s *Session) LoadLayout(ctx context.Context, name string) error {
	ctx, span := tracer.Start(ctx, "LoadLayout")
	defer span.End()

	span.SetAttributes(attribute.String("layout", name))

	xpath := fmt.Sprintf(`//span[@class='whitespace-nowrap' and text()='%s']`, name)
	err := s.Browser.WaitVisibleXPath(ctx, xpath, time.Second*10)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "layout not found")
		return fmt.Errorf("layout %q not found: %w", name, err)
	}
	err = s.Browser.ClickXPath(ctx, xpath)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to click layout")
		return err
	}

	// give the workspace time to swap windows
	time.Sleep(time.Second)
	return nil
}

// OpenTerminal focuses the command palette with the backtick hotkey.
func (s *Session) OpenTerminal(ctx context.Context) error {
	ctx, span := tracer.Start(ctx, "OpenTerminal")
	defer span.End()

	err := s.Browser.PressKey(ctx, "`")
	if err != nil {
		return err
	}
	err = s.Browser.WaitVisible(ctx, terminalInput, time.Second*5)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "terminal input never appeared")
		return err
	}
	return nil
}

// SendCommand types a command into the palette and submits it. The
// pause before Enter lets the palette's autocomplete settle, without
// it the app intermittently swallows the command.
func (s *Session) SendCommand(ctx context.Context, command string) error {
	ctx, span := tracer.Start(ctx, "SendCommand")
	defer span.End()

	span.SetAttributes(attribute.String("command", command))

	err := s.OpenTerminal(ctx)
	if err != nil {
		return err
	}
	err = s.Browser.SetValue(ctx, terminalInput, "")
	if err != nil {
		return err
	}
	err = s.Browser.Focus(ctx, terminalInput)
	if err != nil {
		return err
	}
	err = s.Browser.TypeHuman(ctx, command)
	if err != nil {
		return err
	}

	time.Sleep(time.Millisecond * 300)

	return s.Browser.PressEnter(ctx)
}

// HttpClient builds a resty client that shares the browser's
// authenticated cookies, for downloads that bypass the DOM.
func (s *Session) HttpClient(ctx context.Context) (*resty.Client, error) {
	ctx, span := tracer.Start(ctx, "HttpClient")
	defer span.End()

	client := resty.New()
	client.SetBaseURL(s.BaseUrl.String())
	jar, err := cookiejar.New(nil)
	if err != nil {
		return nil, err
	}

	cookies, err := s.Browser.Cookies(ctx)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to export browser cookies")
		return nil, err
	}
	jar.SetCookies(s.BaseUrl, cookies)
	client.SetCookieJar(jar)
	client.GetClient().Transport = cloudflarebp.AddCloudFlareByPass(client.GetClient().Transport)

	client.SetHeader("user-agent", "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/123.0.0.0 Safari/537.36")
	client.SetRedirectPolicy(resty.DomainCheckRedirectPolicy(s.BaseUrl.Hostname()))
	client.SetTimeout(time.Second * 30)

	telemetry.InstrumentResty(client, "scrapers/godel/http")
	restyutil.InstrumentClient(client, tracer, restyInstrumentOutput)

	return client, nil
}
