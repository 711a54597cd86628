// Package present formats scans for display and decides which actions a
// user can take on them.
package present

import (
	"fmt"

	"qrscan_bot/internal/model"
	"qrscan_bot/internal/scan"
)

// Action is a user action offered on a scan.
type Action string

// Supported actions. The values double as callback identifiers.
const (
	ActionOpen         Action = "open"
	ActionCopy         Action = "copy"
	ActionCopyPassword Action = "copypw"
	ActionShare        Action = "share"
	ActionDelete       Action = "delete"
	ActionCancel       Action = "cancel"
)

var actionLabels = map[Action]string{
	ActionOpen:         "Open",
	ActionCopy:         "Copy",
	ActionCopyPassword: "Copy Password",
	ActionShare:        "Share",
	ActionDelete:       "Delete",
	ActionCancel:       "Cancel",
}

// Label returns the button caption of an action.
func (a Action) Label() string {
	if l, ok := actionLabels[a]; ok {
		return l
	}
	return string(a)
}

// ParseAction maps a callback identifier back to an Action.
func ParseAction(s string) (Action, bool) {
	a := Action(s)
	_, ok := actionLabels[a]
	return a, ok
}

// Notices for empty history listings.
const (
	NoHistory = "No QR Code history found"
	NoMatches = "No scans match."
)

// View is a formatted scan with its ordered actions.
type View struct {
	Title   string
	Body    string
	Actions []Action
}

// Result is the card shown right after a successful scan.
func Result(sc *model.Scan) View {
	v := View{Title: "QR Scan", Body: sc.Details}
	switch sc.Tag {
	case model.TagWebsite:
		v.Actions = []Action{ActionOpen, ActionCopy}
	case model.TagWiFi:
		w := scan.ParseWiFi(sc.Details)
		v.Body = fmt.Sprintf("SSID: %s\nPassword: %s", w.SSID, w.Password)
		v.Actions = []Action{ActionCopyPassword}
	default:
		v.Actions = []Action{ActionCopy}
	}
	v.Actions = append(v.Actions, ActionCancel)
	return v
}

// Item is the card shown when a history entry is selected.
func Item(sc *model.Scan) View {
	switch sc.Tag {
	case model.TagWebsite:
		return View{
			Title:   sc.Details,
			Body:    sc.DateTime,
			Actions: []Action{ActionOpen, ActionCopy, ActionShare, ActionDelete, ActionCancel},
		}
	case model.TagWiFi:
		w := scan.ParseWiFi(sc.Details)
		return View{
			Title:   w.SSID,
			Body:    sc.DateTime,
			Actions: []Action{ActionCopyPassword, ActionShare, ActionDelete, ActionCancel},
		}
	default:
		return View{
			Title:   sc.Details,
			Body:    sc.DateTime,
			Actions: []Action{ActionCopy, ActionShare, ActionDelete, ActionCancel},
		}
	}
}

// DisplayDetails is the text shown for a scan in history listings.
func DisplayDetails(sc *model.Scan) string {
	if sc.Tag == model.TagWiFi {
		return scan.ParseWiFi(sc.Details).Display()
	}
	return sc.Details
}

// CopyText is the text placed on the clipboard by the copy actions.
func CopyText(sc *model.Scan) string {
	if sc.Tag == model.TagWiFi {
		return scan.ParseWiFi(sc.Details).Password
	}
	return sc.Details
}

// ShareText is the text sent by the share action.
func ShareText(sc *model.Scan) string {
	if sc.Tag == model.TagWiFi {
		return scan.ParseWiFi(sc.Details).ShareText()
	}
	return sc.Details
}

// OpenURL returns the link opened by the open action, if the scan has one.
func OpenURL(sc *model.Scan) (string, bool) {
	if sc.Tag != model.TagWebsite {
		return "", false
	}
	return sc.Details, true
}
