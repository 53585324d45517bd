package browser

import (
	"context"
	"time"

	"github.com/chromedp/chromedp"
	"github.com/chromedp/chromedp/kb"
	"github.com/mazen160/go-random"
)

// PressKey sends a raw key event to whatever element has focus.
// Useful keys: kb.Enter, "`".
func (b *Browser) PressKey(ctx context.Context, key string) error {
	return b.run(ctx, "PressKey", chromedp.KeyEvent(key))
}

func (b *Browser) PressEnter(ctx context.Context) error {
	return b.PressKey(ctx, kb.Enter)
}

// TypeHuman types text one key at a time with jittered delays so the
// SPA's per-keystroke handlers all fire.
func (b *Browser) TypeHuman(ctx context.Context, text string) error {
	for _, r := range text {
		err := b.run(ctx, "TypeHuman", chromedp.KeyEvent(string(r)))
		if err != nil {
			return err
		}
		jitter, err := random.IntRange(20, 60)
		if err != nil {
			jitter = 40
		}
		select {
		case <-time.After(time.Duration(jitter) * time.Millisecond):
		case <-ctx.Done():
			return ctx.Err()
		}
	}
	return nil
}
