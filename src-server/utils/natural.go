package utils

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"remind/src-server/model"

	"github.com/olebedev/when"
	"github.com/olebedev/when/rules/common"
	"github.com/olebedev/when/rules/en"
)

var ErrNoDateFound = errors.New("no date or time found")

// Natural turns phrases like "dentist tomorrow at 3pm" into a NewEvent.
type Natural struct {
	parser *when.Parser
	loc    *time.Location
}

func NewNatural(loc *time.Location) *Natural {
	if loc == nil {
		loc = time.Local
	}
	parser := when.New(nil)
	parser.Add(en.All...)
	parser.Add(common.All...)
	return &Natural{parser: parser, loc: loc}
}

// ParseEvent resolves the date phrase relative to now; whatever text is
// left over becomes the event name.
func (n *Natural) ParseEvent(text string, now time.Time) (model.NewEvent, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return model.NewEvent{}, fmt.Errorf("(*Natural).ParseEvent: text is blank")
	}

	result, err := n.parser.Parse(text, now.In(n.loc))
	if err != nil {
		return model.NewEvent{}, fmt.Errorf("(*Natural).ParseEvent: %w", err)
	}
	if result == nil {
		return model.NewEvent{}, fmt.Errorf("(*Natural).ParseEvent: %q: %w", text, ErrNoDateFound)
	}

	name := text[:result.Index] + " " + text[result.Index+len(result.Text):]
	name = strings.Join(strings.Fields(name), " ")
	for _, dangling := range []string{" at", " on", " by", ","} {
		name = strings.TrimSuffix(name, dangling)
	}
	name = strings.Trim(name, " ,.-")

	at := result.Time.In(n.loc)
	return model.NewEvent{
		Name: name,
		Date: at.Format(model.DateLayout),
		Time: at.Format(model.TimeLayout),
	}, nil
}
