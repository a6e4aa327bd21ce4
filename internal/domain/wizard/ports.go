package wizard

import "context"

// TemplateRepository loads action templates by code.
// Templates come from server-pushed configuration; the store behind this
// port is an adapter concern.
type TemplateRepository interface {
	// FindByCode retrieves the ordered step list for an action template.
	// Implementations must run Validate on load and reject broken
	// templates; Lint warnings are logged, not fatal.
	FindByCode(ctx context.Context, code string) (*ActionTemplate, error)
}
