package bot

import (
	"fmt"
	"strconv"
	"strings"

	"qrscan_bot/internal/model"
	"qrscan_bot/internal/present"
	"qrscan_bot/internal/scan"
)

// Card kinds encoded in callback data.
const (
	cardResult  = "res"
	cardItem    = "item"
	cardHistory = "hist"
)

// Callback is a decoded inline keyboard press.
type Callback struct {
	Card   string
	Action present.Action
	Tag    model.Tag
	ID     int64
}

// ParseCallback decodes callback data of the form <card>:<action>:<id>.
// History chips use <hist>:<tag|all>:0.
func ParseCallback(data string) (Callback, error) {
	parts := strings.SplitN(data, ":", 3)
	if len(parts) != 3 {
		return Callback{}, fmt.Errorf("malformed callback %q", data)
	}
	id, err := strconv.ParseInt(parts[2], 10, 64)
	if err != nil {
		return Callback{}, fmt.Errorf("invalid id in callback %q", data)
	}

	cb := Callback{Card: parts[0], ID: id}
	switch cb.Card {
	case cardHistory:
		tag, err := scan.ParseTag(parts[1])
		if err != nil {
			return Callback{}, err
		}
		cb.Tag = tag
	case cardResult, cardItem:
		if parts[1] == string(actionShow) {
			cb.Action = actionShow
			break
		}
		action, ok := present.ParseAction(parts[1])
		if !ok {
			return Callback{}, fmt.Errorf("unknown action %q", parts[1])
		}
		cb.Action = action
	default:
		return Callback{}, fmt.Errorf("unknown card %q", parts[0])
	}
	return cb, nil
}

// ParseIDArg extracts a numeric scan ID from a command argument string.
func ParseIDArg(args string) (int64, error) {
	s := strings.TrimPrefix(strings.TrimSpace(args), "#")
	if s == "" {
		return 0, fmt.Errorf("scan ID is required")
	}
	id, err := strconv.ParseInt(strings.Fields(s)[0], 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid scan ID %q", s)
	}
	return id, nil
}

// ParseHistoryArgs splits /history arguments into an optional category and a
// search text. A leading word naming a category (all, text, website, wifi)
// selects it; everything else is search text.
func ParseHistoryArgs(args string) model.ScanQuery {
	fields := strings.Fields(args)
	if len(fields) == 0 {
		return model.ScanQuery{}
	}
	var q model.ScanQuery
	if tag, err := scan.ParseTag(fields[0]); err == nil {
		q.Tag = tag
		fields = fields[1:]
	}
	q.Search = strings.Join(fields, " ")
	return q
}
