package board

// InputKind is the kind of one raw pointer event.
type InputKind int

// InputKind values.
const (
	InputPress InputKind = iota + 1
	InputMove
	InputRelease
	InputLeave
	InputCancel
)

// Pointer is the device that produced an event.
type Pointer int

// Pointer values.
const (
	PointerMouse Pointer = iota
	PointerTouch
)

// Button identifies the mouse button of a press. Touch events are always primary.
type Button int

// Button values.
const (
	ButtonPrimary Button = iota
	ButtonSecondary
	ButtonMiddle
)

// InputEvent is one toolkit-neutral pointer event addressed to a card.
// X is the horizontal coordinate in pointer units.
type InputEvent struct {
	Kind    InputKind
	Pointer Pointer
	Button  Button
	X       int
}

// Press returns a primary mouse press at x.
func Press(x int) InputEvent {
	return InputEvent{Kind: InputPress, Pointer: PointerMouse, Button: ButtonPrimary, X: x}
}

// PressButton returns a mouse press at x with the given button.
func PressButton(x int, button Button) InputEvent {
	return InputEvent{Kind: InputPress, Pointer: PointerMouse, Button: button, X: x}
}

// Move returns a mouse motion event at x.
func Move(x int) InputEvent {
	return InputEvent{Kind: InputMove, Pointer: PointerMouse, X: x}
}

// Release returns a mouse release at x.
func Release(x int) InputEvent {
	return InputEvent{Kind: InputRelease, Pointer: PointerMouse, X: x}
}

// Leave returns a pointer-leave event.
func Leave() InputEvent {
	return InputEvent{Kind: InputLeave, Pointer: PointerMouse}
}

// TouchStart returns a touch start at x.
func TouchStart(x int) InputEvent {
	return InputEvent{Kind: InputPress, Pointer: PointerTouch, X: x}
}

// TouchMove returns a touch move at x.
func TouchMove(x int) InputEvent {
	return InputEvent{Kind: InputMove, Pointer: PointerTouch, X: x}
}

// TouchEnd returns a touch end. Touch ends carry no coordinate.
func TouchEnd() InputEvent {
	return InputEvent{Kind: InputRelease, Pointer: PointerTouch}
}

// TouchCancel returns a touch cancel.
func TouchCancel() InputEvent {
	return InputEvent{Kind: InputCancel, Pointer: PointerTouch}
}

// primary reports whether the event may start a drag.
func (e InputEvent) primary() bool {
	return e.Pointer == PointerTouch || e.Button == ButtonPrimary
}

// positioned reports whether the event carries a usable coordinate.
func (e InputEvent) positioned() bool {
	if e.Pointer == PointerTouch {
		return e.Kind == InputPress || e.Kind == InputMove
	}
	return e.Kind != InputLeave && e.Kind != InputCancel
}
