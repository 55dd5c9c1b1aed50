package content

import "portfolio/internal/model"

// All selects every published project in ByCategory.
const All = "all"

// Published returns the projects visible on the public site, keeping their order.
func Published(projects []model.Project) []model.Project {
	return filter(projects, func(p model.Project) bool {
		return p.Status == model.StatusPublished
	})
}

// Featured returns the published projects flagged as featured.
func Featured(projects []model.Project) []model.Project {
	return filter(projects, func(p model.Project) bool {
		return p.Featured && p.Status == model.StatusPublished
	})
}

// ByCategory returns the published projects of category, or every published
// project when category is "all".
func ByCategory(projects []model.Project, category string) []model.Project {
	if category == All {
		return Published(projects)
	}
	return filter(projects, func(p model.Project) bool {
		return string(p.Category) == category && p.Status == model.StatusPublished
	})
}

func filter(projects []model.Project, keep func(model.Project) bool) []model.Project {
	out := make([]model.Project, 0, len(projects))
	for _, p := range projects {
		if keep(p) {
			out = append(out, p)
		}
	}
	return out
}
