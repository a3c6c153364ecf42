package quest

// QuestView is the public summary of a quest.
type QuestView struct {
	ID       string  `json:"id"`
	Type     string  `json:"type"`
	Subtype  string  `json:"subtype"`
	Stage    int     `json:"stage"`
	MaxStage int     `json:"max_stage"`
	Status   Status  `json:"status"`
	Log      []Entry `json:"log"`
}

// EventView is the public form of an open encounter.
type EventView struct {
	ID     string `json:"id"`
	Type   string `json:"type"`
	Title  string `json:"title"`
	Prompt string `json:"prompt"`
	Scene  string `json:"scene,omitempty"`
	Sprite string `json:"sprite,omitempty"`
}

// OptionView is one selectable option.
type OptionView struct {
	ID     string `json:"id"`
	Label  string `json:"label"`
	Type   string `json:"type,omitempty"`
	Hidden bool   `json:"hidden,omitempty"`
}

// Response is returned by every quest operation.
//
// Invariant: EventOptions is set iff PendingEvent is set; PathOptions is set
// only when PendingEvent is nil.
type Response struct {
	Quest        QuestView    `json:"quest"`
	PendingEvent *EventView   `json:"pending_event"`
	EventOptions []OptionView `json:"event_options,omitempty"`
	PathOptions  []OptionView `json:"path_options,omitempty"`
	Latest       *Entry       `json:"latest"`
	Resumed      bool         `json:"resumed"`
}

// buildResponse copies quest state into a detached view.
func buildResponse(q *Quest, latest *Entry, resumed bool) Response {
	resp := Response{
		Quest: QuestView{
			ID:       q.ID,
			Type:     q.Type,
			Subtype:  q.Subtype,
			Stage:    q.Stage,
			MaxStage: q.MaxStage(),
			Status:   q.Status,
			Log:      append([]Entry(nil), q.Log...),
		},
		Resumed: resumed,
	}
	if latest != nil {
		l := *latest
		resp.Latest = &l
	}

	if p := q.Pending; p != nil {
		resp.PendingEvent = &EventView{
			ID:     p.ID,
			Type:   p.Type,
			Title:  p.Title,
			Prompt: p.Prompt,
			Scene:  p.Scene,
			Sprite: p.Sprite,
		}
		resp.EventOptions = make([]OptionView, len(p.Options))
		for i, o := range p.Options {
			resp.EventOptions[i] = OptionView{ID: o.ID, Label: o.Label}
		}
		return resp
	}

	for _, o := range q.CurrentOptions {
		view := OptionView{ID: o.ID, Label: o.Label, Type: o.Type, Hidden: o.Hidden}
		if o.Hidden {
			view.Label = hiddenDisplay
			view.Type = ""
		}
		resp.PathOptions = append(resp.PathOptions, view)
	}
	return resp
}
