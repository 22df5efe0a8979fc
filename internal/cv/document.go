// Package cv holds the tailored CV data model and the static project facts it is enriched with.
package cv

// Document is the structured CV produced by the model and enriched with static data.
// JSON names follow the response format the model is asked to return.
type Document struct {
	Profile  string              `json:"Profile"`
	Skills   map[string][]string `json:"Technical Skills"`
	Projects []Project           `json:"Relevant Projects"`
}

// Project is a project slot selected by the model.
// Title and Skills come from the model, the rest is filled by Merge.
type Project struct {
	Title       string   `json:"Title"`
	Skills      []string `json:"Skills"`
	Dates       string   `json:"Dates,omitempty"`
	Link        string   `json:"Link,omitempty"`
	Description string   `json:"Description,omitempty"`
}

// Titles returns the selected project titles in slot order.
func (d *Document) Titles() []string {
	if d == nil {
		return nil
	}

	titles := make([]string, 0, len(d.Projects))
	for _, p := range d.Projects {
		titles = append(titles, p.Title)
	}

	return titles
}

// Clone returns a deep copy of the document.
func (d *Document) Clone() *Document {
	if d == nil {
		return nil
	}

	out := &Document{Profile: d.Profile}

	if d.Skills != nil {
		out.Skills = make(map[string][]string, len(d.Skills))
		for category, skills := range d.Skills {
			out.Skills[category] = append([]string(nil), skills...)
		}
	}

	if d.Projects != nil {
		out.Projects = make([]Project, len(d.Projects))
		for i, p := range d.Projects {
			p.Skills = append([]string(nil), p.Skills...)
			out.Projects[i] = p
		}
	}

	return out
}
