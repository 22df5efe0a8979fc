package cv

// Merge returns a copy of doc with every selected project enriched from the static table.
//
// Lookup is by exact title. A title missing from the table leaves dates, link and
// description empty. Titles are never changed and doc itself is not modified.
func Merge(doc *Document, table StaticTable) *Document {
	out := doc.Clone()
	if out == nil {
		return nil
	}

	for i := range out.Projects {
		project := &out.Projects[i]

		record, ok := table.Lookup(project.Title)
		if !ok {
			project.Dates = ""
			project.Link = ""
			project.Description = ""
			continue
		}

		project.Dates = record.Dates
		project.Link = record.Link
		project.Description = record.Description
	}

	return out
}
