// Package input translates GTK input events into the engine's input model.
package input

import (
	"unicode/utf8"

	"github.com/jwijenbergh/puregotk/v4/gdk"

	"github.com/ravel-dev/weft/pkg/engine"
)

// GDK encodes arbitrary Unicode keyvals as codepoint + this offset.
const unicodeKeyvalOffset = 0x01000000

type namedKey struct {
	name     string
	location engine.KeyLocation
}

// namedKeys maps GDK keyvals that do not produce a character to their W3C
// UI Events key names. Printable keyvals fall through to keyvalRune.
var namedKeys = map[uint]namedKey{
	uint(gdk.KEY_Escape):       {"Escape", engine.LocationStandard},
	uint(gdk.KEY_Return):       {"Enter", engine.LocationStandard},
	uint(gdk.KEY_Tab):          {"Tab", engine.LocationStandard},
	uint(gdk.KEY_ISO_Left_Tab): {"Tab", engine.LocationStandard},
	uint(gdk.KEY_BackSpace):    {"Backspace", engine.LocationStandard},
	uint(gdk.KEY_Delete):       {"Delete", engine.LocationStandard},
	uint(gdk.KEY_Insert):       {"Insert", engine.LocationStandard},
	uint(gdk.KEY_Home):         {"Home", engine.LocationStandard},
	uint(gdk.KEY_End):          {"End", engine.LocationStandard},
	uint(gdk.KEY_Page_Up):      {"PageUp", engine.LocationStandard},
	uint(gdk.KEY_Page_Down):    {"PageDown", engine.LocationStandard},

	uint(gdk.KEY_Up):    {"ArrowUp", engine.LocationStandard},
	uint(gdk.KEY_Down):  {"ArrowDown", engine.LocationStandard},
	uint(gdk.KEY_Left):  {"ArrowLeft", engine.LocationStandard},
	uint(gdk.KEY_Right): {"ArrowRight", engine.LocationStandard},

	uint(gdk.KEY_Shift_L):   {"Shift", engine.LocationLeft},
	uint(gdk.KEY_Shift_R):   {"Shift", engine.LocationRight},
	uint(gdk.KEY_Control_L): {"Control", engine.LocationLeft},
	uint(gdk.KEY_Control_R): {"Control", engine.LocationRight},
	uint(gdk.KEY_Alt_L):     {"Alt", engine.LocationLeft},
	uint(gdk.KEY_Alt_R):     {"Alt", engine.LocationRight},
	uint(gdk.KEY_Super_L):   {"Meta", engine.LocationLeft},
	uint(gdk.KEY_Super_R):   {"Meta", engine.LocationRight},

	uint(gdk.KEY_ISO_Level3_Shift): {"AltGraph", engine.LocationStandard},
	uint(gdk.KEY_Caps_Lock):        {"CapsLock", engine.LocationStandard},
	uint(gdk.KEY_Num_Lock):         {"NumLock", engine.LocationStandard},
	uint(gdk.KEY_Scroll_Lock):      {"ScrollLock", engine.LocationStandard},
	uint(gdk.KEY_Menu):             {"ContextMenu", engine.LocationStandard},
	uint(gdk.KEY_Print):            {"PrintScreen", engine.LocationStandard},
	uint(gdk.KEY_Pause):            {"Pause", engine.LocationStandard},

	uint(gdk.KEY_F1):  {"F1", engine.LocationStandard},
	uint(gdk.KEY_F2):  {"F2", engine.LocationStandard},
	uint(gdk.KEY_F3):  {"F3", engine.LocationStandard},
	uint(gdk.KEY_F4):  {"F4", engine.LocationStandard},
	uint(gdk.KEY_F5):  {"F5", engine.LocationStandard},
	uint(gdk.KEY_F6):  {"F6", engine.LocationStandard},
	uint(gdk.KEY_F7):  {"F7", engine.LocationStandard},
	uint(gdk.KEY_F8):  {"F8", engine.LocationStandard},
	uint(gdk.KEY_F9):  {"F9", engine.LocationStandard},
	uint(gdk.KEY_F10): {"F10", engine.LocationStandard},
	uint(gdk.KEY_F11): {"F11", engine.LocationStandard},
	uint(gdk.KEY_F12): {"F12", engine.LocationStandard},

	// Numpad keys report their editing/navigation meaning with numpad
	// location so the engine can distinguish them from the main cluster.
	uint(gdk.KEY_KP_Enter):     {"Enter", engine.LocationNumpad},
	uint(gdk.KEY_KP_Home):      {"Home", engine.LocationNumpad},
	uint(gdk.KEY_KP_End):       {"End", engine.LocationNumpad},
	uint(gdk.KEY_KP_Page_Up):   {"PageUp", engine.LocationNumpad},
	uint(gdk.KEY_KP_Page_Down): {"PageDown", engine.LocationNumpad},
	uint(gdk.KEY_KP_Up):        {"ArrowUp", engine.LocationNumpad},
	uint(gdk.KEY_KP_Down):      {"ArrowDown", engine.LocationNumpad},
	uint(gdk.KEY_KP_Left):      {"ArrowLeft", engine.LocationNumpad},
	uint(gdk.KEY_KP_Right):     {"ArrowRight", engine.LocationNumpad},
	uint(gdk.KEY_KP_Insert):    {"Insert", engine.LocationNumpad},
	uint(gdk.KEY_KP_Delete):    {"Delete", engine.LocationNumpad},

	uint(gdk.KEY_KP_0):        {"0", engine.LocationNumpad},
	uint(gdk.KEY_KP_1):        {"1", engine.LocationNumpad},
	uint(gdk.KEY_KP_2):        {"2", engine.LocationNumpad},
	uint(gdk.KEY_KP_3):        {"3", engine.LocationNumpad},
	uint(gdk.KEY_KP_4):        {"4", engine.LocationNumpad},
	uint(gdk.KEY_KP_5):        {"5", engine.LocationNumpad},
	uint(gdk.KEY_KP_6):        {"6", engine.LocationNumpad},
	uint(gdk.KEY_KP_7):        {"7", engine.LocationNumpad},
	uint(gdk.KEY_KP_8):        {"8", engine.LocationNumpad},
	uint(gdk.KEY_KP_9):        {"9", engine.LocationNumpad},
	uint(gdk.KEY_KP_Add):      {"+", engine.LocationNumpad},
	uint(gdk.KEY_KP_Subtract): {"-", engine.LocationNumpad},
	uint(gdk.KEY_KP_Multiply): {"*", engine.LocationNumpad},
	uint(gdk.KEY_KP_Divide):   {"/", engine.LocationNumpad},
	uint(gdk.KEY_KP_Decimal):  {".", engine.LocationNumpad},
}

// KeyvalToName maps a GDK keyval to a W3C UI Events key name and location.
// Named keys come from the table above; printable keyvals map to the
// character they produce. Unmapped keyvals return ok=false and should not
// be forwarded.
func KeyvalToName(keyval uint) (name string, location engine.KeyLocation, ok bool) {
	if k, found := namedKeys[keyval]; found {
		return k.name, k.location, true
	}
	if r, found := keyvalRune(keyval); found {
		return string(r), engine.LocationStandard, true
	}
	return "", engine.LocationStandard, false
}

// keyvalRune converts printable keyvals: Latin-1 keyvals are their own
// codepoint, everything else uses GDK's Unicode offset encoding.
func keyvalRune(keyval uint) (rune, bool) {
	switch {
	case keyval >= 0x20 && keyval <= 0x7e:
		return rune(keyval), true
	case keyval >= 0xa0 && keyval <= 0xff:
		return rune(keyval), true
	case keyval >= unicodeKeyvalOffset:
		r := rune(keyval - unicodeKeyvalOffset)
		if utf8.ValidRune(r) && r >= 0x20 {
			return r, true
		}
	}
	return 0, false
}
