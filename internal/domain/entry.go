package domain

import (
	"encoding/json"
	"strings"
	"time"
)

// Entry is anything shown on the calendar: a stored Appointment or a
// synthesized Deadline. Only Appointment values can reach the stores.
type Entry interface {
	Item() Item
	isEntry()
}

// Item is the read-only, flattened view of an Entry.
type Item struct {
	ID          string
	Title       string
	Description string
	Location    string
	Client      ClientRef
	Start       time.Time
	End         time.Time
	Kind        Kind
	Status      Status
	Priority    Priority
	Reminder    *Reminder
	Source      *DocumentRef
	Synthesized bool
}

// SynthesizedIDPrefix marks ids owned by the deadline synthesizer.
const SynthesizedIDPrefix = "echeance-"

func IsSynthesizedID(id string) bool {
	return strings.HasPrefix(id, SynthesizedIDPrefix)
}

// Entries merges stored appointments and deadlines, appointments first.
func Entries(appts []Appointment, deadlines []Deadline) []Entry {
	out := make([]Entry, 0, len(appts)+len(deadlines))
	for _, a := range appts {
		out = append(out, a)
	}
	for _, d := range deadlines {
		out = append(out, d)
	}
	return out
}

type itemJSON struct {
	ID          string          `json:"id"`
	Title       string          `json:"title"`
	Description string          `json:"description,omitempty"`
	Location    string          `json:"location,omitempty"`
	ClientID    string          `json:"clientId,omitempty"`
	Client      *ClientSnapshot `json:"client,omitempty"`
	Start       time.Time       `json:"start"`
	End         time.Time       `json:"end"`
	Kind        Kind            `json:"kind"`
	Status      Status          `json:"status"`
	Priority    Priority        `json:"priority"`
	Reminder    *Reminder       `json:"reminder,omitempty"`
	Source      *DocumentRef    `json:"source,omitempty"`
	Synthesized bool            `json:"synthesized"`
}

func (it Item) MarshalJSON() ([]byte, error) {
	id, snap := splitClient(it.Client)
	return json.Marshal(itemJSON{
		ID:          it.ID,
		Title:       it.Title,
		Description: it.Description,
		Location:    it.Location,
		ClientID:    id,
		Client:      snap,
		Start:       it.Start,
		End:         it.End,
		Kind:        it.Kind,
		Status:      it.Status,
		Priority:    it.Priority,
		Reminder:    it.Reminder,
		Source:      it.Source,
		Synthesized: it.Synthesized,
	})
}

func (it *Item) UnmarshalJSON(b []byte) error {
	var in itemJSON
	if err := json.Unmarshal(b, &in); err != nil {
		return err
	}
	*it = Item{
		ID:          in.ID,
		Title:       in.Title,
		Description: in.Description,
		Location:    in.Location,
		Client:      joinClient(in.ClientID, in.Client),
		Start:       in.Start,
		End:         in.End,
		Kind:        in.Kind,
		Status:      in.Status,
		Priority:    in.Priority,
		Reminder:    in.Reminder,
		Source:      in.Source,
		Synthesized: in.Synthesized,
	}
	return nil
}
