package tui

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"charm.land/bubbles/v2/key"
)

// keyMap holds the board bindings shown in the help bar.
type keyMap struct {
	quit       key.Binding
	toggleHelp key.Binding
	reload     key.Binding
	nextTab    key.Binding
	prevTab    key.Binding
	copyBoard  key.Binding
	confirm    key.Binding
	decline    key.Binding
}

// newKeyMap constructs the default bindings.
func newKeyMap() keyMap {
	return keyMap{
		quit:       key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
		toggleHelp: key.NewBinding(key.WithKeys("?"), key.WithHelp("?", "toggle help")),
		reload:     key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "reload")),
		nextTab:    key.NewBinding(key.WithKeys("tab"), key.WithHelp("tab", "next kid")),
		prevTab:    key.NewBinding(key.WithKeys("shift+tab"), key.WithHelp("shift+tab", "previous kid")),
		copyBoard:  key.NewBinding(key.WithKeys("c"), key.WithHelp("c", "copy board")),
		confirm:    key.NewBinding(key.WithKeys("y", "enter"), key.WithHelp("y/enter", "confirm")),
		decline:    key.NewBinding(key.WithKeys("n", "esc"), key.WithHelp("n/esc", "cancel")),
	}
}

// applyConfig overrides configurable bindings. Blank values keep the defaults.
func (k *keyMap) applyConfig(cfg KeyConfig) {
	configureBinding(&k.toggleHelp, cfg.Help, "?", "toggle help")
	configureBinding(&k.reload, cfg.Reload, "r", "reload")
	configureBinding(&k.nextTab, cfg.NextTab, "tab", "next kid")
	configureBinding(&k.prevTab, cfg.PrevTab, "shift+tab", "previous kid")
	configureBinding(&k.copyBoard, cfg.Copy, "c", "copy board")
}

// ShortHelp returns the bindings shown in the collapsed help bar.
func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.nextTab, k.reload, k.copyBoard, k.toggleHelp, k.quit}
}

// FullHelp returns every binding grouped by purpose.
func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.nextTab, k.prevTab, k.reload, k.copyBoard},
		{k.confirm, k.decline},
		{k.toggleHelp, k.quit},
	}
}

// confirmHelp returns the bindings shown while a revert prompt is open.
func (k keyMap) confirmHelp() []key.Binding {
	return []key.Binding{k.confirm, k.decline}
}

// configureBinding replaces the keys and help of b from one configured value.
func configureBinding(b *key.Binding, raw, fallback, desc string) {
	keys, help := parseBindingKeys(raw, fallback)
	b.SetKeys(keys...)
	b.SetHelp(help, desc)
}

// parseBindingKeys maps one configured key string onto key matchers and a help label.
// A single uppercase rune also matches its shift+ form.
func parseBindingKeys(raw, fallback string) ([]string, string) {
	value := strings.TrimSpace(raw)
	if value == "" && raw != " " {
		value = strings.TrimSpace(fallback)
	}
	if raw == " " || strings.EqualFold(value, "space") {
		return []string{" ", "space"}, "space"
	}
	if utf8.RuneCountInString(value) == 1 {
		r, _ := utf8.DecodeRuneInString(value)
		if unicode.IsUpper(r) {
			return []string{value, "shift+" + string(unicode.ToLower(r))}, value
		}
		return []string{value}, value
	}
	return []string{strings.ToLower(value)}, value
}
