// Package hotkey watches system-wide key combinations through a global
// keyboard hook and fires callbacks regardless of window focus.
package hotkey

import (
	"errors"
	"fmt"
	"log"
	"strings"

	gohook "github.com/robotn/gohook"
)

// ErrConflict means a binding could not be established. The caller logs
// it and keeps running without that binding.
var ErrConflict = errors.New("hotkey binding refused")

// Binding ties one combo string, e.g. "Ctrl+Alt+D", to a callback. Fire
// runs on the hook goroutine; callbacks must hand off quickly (the frame
// loop's bindings do a non-blocking channel send).
type Binding struct {
	Combo string
	Fire  func()
}

type comboState struct {
	combo string
	fire  func()
	keys  []keyState
}

type keyState struct {
	name     string
	rawcodes []uint16
	pressed  bool
}

// Listen validates the bindings, starts the global hook on its own
// goroutine and watches all combos over the one event stream. It returns
// an error only when no binding is usable; a partially valid set runs
// with the valid part.
func Listen(bindings ...Binding) error {
	var watched []*comboState
	for _, b := range bindings {
		cs, err := compile(b)
		if err != nil {
			log.Printf("Skipping hotkey %q: %v", b.Combo, err)
			continue
		}
		watched = append(watched, cs)
	}
	if len(watched) == 0 {
		return fmt.Errorf("%w: no usable combos", ErrConflict)
	}

	go run(watched)
	return nil
}

// Stop tears the global hook down; the hook goroutine exits when its
// event channel closes.
func Stop() {
	gohook.End()
}

func compile(b Binding) (*comboState, error) {
	if b.Fire == nil {
		return nil, fmt.Errorf("%w: no callback", ErrConflict)
	}
	names := parseCombo(b.Combo)
	if len(names) == 0 {
		return nil, fmt.Errorf("%w: empty combo", ErrConflict)
	}
	cs := &comboState{combo: b.Combo, fire: b.Fire}
	for _, name := range names {
		rawcodes := rawcodesFor(name)
		if len(rawcodes) == 0 {
			return nil, fmt.Errorf("%w: unknown key %q", ErrConflict, name)
		}
		cs.keys = append(cs.keys, keyState{name: name, rawcodes: rawcodes})
	}
	return cs, nil
}

// run consumes the hook stream. All state is confined to this goroutine.
func run(watched []*comboState) {
	defer func() {
		if r := recover(); r != nil {
			log.Printf("PANIC in hotkey goroutine: %v", r)
		}
	}()

	evChan := gohook.Start()
	if evChan == nil {
		log.Printf("Global hook unavailable, hotkeys disabled")
		return
	}
	log.Printf("Global hook started, watching %d combos", len(watched))

	for ev := range evChan {
		switch ev.Kind {
		case gohook.KeyDown, gohook.KeyHold:
			for _, cs := range watched {
				if cs.press(ev.Rawcode) {
					log.Printf("Hotkey %s fired", cs.combo)
					cs.fire()
				}
			}
		case gohook.KeyUp:
			for _, cs := range watched {
				cs.release(ev.Rawcode)
			}
		}
	}
	log.Printf("Hook event channel closed")
}

// press marks a matching key down and reports whether the whole combo is
// now held. On a full match the combo resets so holding the keys does
// not retrigger.
func (cs *comboState) press(rawcode uint16) bool {
	matched := false
	for i := range cs.keys {
		if cs.keys[i].matches(rawcode) {
			cs.keys[i].pressed = true
			matched = true
		}
	}
	if !matched {
		return false
	}
	for i := range cs.keys {
		if !cs.keys[i].pressed {
			return false
		}
	}
	for i := range cs.keys {
		cs.keys[i].pressed = false
	}
	return true
}

func (cs *comboState) release(rawcode uint16) {
	for i := range cs.keys {
		if cs.keys[i].matches(rawcode) {
			cs.keys[i].pressed = false
		}
	}
}

func (k *keyState) matches(rawcode uint16) bool {
	for _, rc := range k.rawcodes {
		if rc == rawcode {
			return true
		}
	}
	return false
}

// parseCombo normalizes "Ctrl+Alt+D" into lower-case key names.
func parseCombo(combo string) []string {
	var names []string
	for _, part := range strings.Split(strings.ToLower(combo), "+") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		switch part {
		case "win", "cmd", "super":
			names = append(names, "cmd")
		default:
			names = append(names, part)
		}
	}
	return names
}
