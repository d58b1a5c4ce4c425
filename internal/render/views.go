package render

import (
	"context"
	"html/template"
	"io"
	"time"

	"github.com/a-h/templ"

	"group_project_service/internal/domain/entity"
	"group_project_service/internal/domain/stage"
)

// ViewContext carries what the viewer of a stage sees beyond the stage itself.
type ViewContext struct {
	UserID     int
	Now        time.Time
	Teammates  []entity.Member
	Workgroups []entity.Workgroup
	// ReviewTarget is the peer or workgroup Answers are about.
	ReviewTarget int
	// Answers holds the viewer's current answers by question id.
	Answers map[string]string
	// Received holds the answers the viewer (or their group) received by question id.
	Received map[string][]string
	Uploads  map[string]entity.Upload
}

type componentData struct {
	Component       entity.Component
	Teammates       []entity.Member
	Selected        int
	Answer          string
	Answers         []string
	Upload          *entity.Upload
	UploadAvailable bool
}

func newComponentData(s stage.Stage, c entity.Component, vc ViewContext) componentData {
	data := componentData{
		Component: c,
		Teammates: vc.Teammates,
		Selected:  vc.ReviewTarget,
		Answer:    vc.Answers[c.QuestionID],
		Answers:   vc.Received[c.QuestionID],
	}
	if upload, ok := vc.Uploads[c.DocumentID()]; ok {
		data.Upload = &upload
	}
	if u, ok := s.(stage.Uploader); ok {
		data.UploadAvailable = u.IsUploadAvailable(vc.Now)
	}
	return data
}

// Component renders the student view of a single stage component.
func Component(s stage.Stage, c entity.Component, vc ViewContext) templ.Component {
	data := newComponentData(s, c, vc)
	switch c.Category {
	case entity.CategoryHTML:
		return Template("components/html", data)
	case entity.CategoryResource:
		return Template("components/resource", data)
	case entity.CategorySubmission:
		return Template("components/submission", data)
	case entity.CategoryPeerSelector:
		return Template("components/peer_selector", data)
	case entity.CategoryReviewQuestion:
		return Template("components/review_question", data)
	case entity.CategoryReviewAssessment:
		return Template("components/review_assessment", data)
	default:
		return templ.NopComponent
	}
}

// Children renders every component of the stage in order.
func Children(s stage.Stage, vc ViewContext) templ.Component {
	components := make([]templ.Component, 0, len(s.Components()))
	for _, c := range s.Components() {
		components = append(components, Component(s, c, vc))
	}
	return Join(components...)
}

// StageContent renders the stage components, inside the stage content
// template when the stage has one.
func StageContent(s stage.Stage, vc ViewContext) templ.Component {
	children := Children(s, vc)
	name := s.ContentTemplate()
	if name == "" {
		return children
	}
	return nested(children, func(content template.HTML) templ.Component {
		return Template(name, map[string]any{
			"Stage":      s,
			"Children":   content,
			"Workgroups": vc.Workgroups,
			"Selected":   vc.ReviewTarget,
			"Closed":     s.IsClosed(vc.Now),
		})
	})
}

// StageWrapper returns a wrapper that puts content into the stage frame.
// taGraded is the number of group reviews the activity requires.
func StageWrapper(s stage.Stage, vc ViewContext, taGraded int) func(templ.Component) templ.Component {
	return func(content templ.Component) templ.Component {
		return nested(content, func(html template.HTML) templ.Component {
			return Template("stages/stage_wrapper.html", map[string]any{
				"Stage":    s,
				"Content":  html,
				"TAGraded": taGraded,
				"Closed":   s.IsClosed(vc.Now),
			})
		})
	}
}

// StudentView is the full stage as a student sees it.
func StudentView(s stage.Stage, vc ViewContext) templ.Component {
	return Wrap(StageContent(s, vc), StageWrapper(s, vc, s.Activity().GroupReviewsRequiredCount))
}

func Navigation(s stage.Stage, state entity.StageState) templ.Component {
	return Template("stages/navigation_view.html", map[string]any{
		"Stage":      s,
		"ActivityID": s.Activity().ID,
		"State":      state,
	})
}

// Resources lists the stage resources in their compact form.
func Resources(s stage.Stage, vc ViewContext) templ.Component {
	var items []templ.Component
	for _, r := range s.Resources() {
		items = append(items, Template("components/resource_view", newComponentData(s, r, vc)))
	}
	return listView("stages/resources_view.html", s, items)
}

// Submissions lists the stage submissions with the latest upload of each.
// Stages without submissions render nothing.
func Submissions(s stage.Stage, vc ViewContext) templ.Component {
	u, ok := s.(stage.Uploader)
	if !ok {
		return templ.NopComponent
	}
	var items []templ.Component
	for _, sub := range u.Submissions() {
		items = append(items, Template("components/submission_view", newComponentData(s, sub, vc)))
	}
	return listView("stages/submissions_view.html", s, items)
}

func listView(name string, s stage.Stage, items []templ.Component) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		contents, err := renderAll(ctx, items)
		if err != nil {
			return err
		}
		return Template(name, map[string]any{"Stage": s, "Contents": contents}).Render(ctx, w)
	})
}
