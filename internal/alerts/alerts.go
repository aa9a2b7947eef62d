package alerts

import "github.com/tsanders-rh/ocpconsole/pkg/types"

// Variant is the severity of an alert
type Variant string

const (
	VariantDanger  Variant = "danger"
	VariantWarning Variant = "warning"
	VariantSuccess Variant = "success"
	VariantInfo    Variant = "info"
)

// Alert is a transient message shown above the page content
type Alert struct {
	ID      string
	Variant Variant
	Title   string
	Message string
}

// List holds the alerts of one page render. It is not safe for concurrent use.
type List struct {
	alerts []Alert
}

// Add appends an alert and returns its ID
func (l *List) Add(variant Variant, title, message string) string {
	a := Alert{
		ID:      types.GenerateID(),
		Variant: variant,
		Title:   title,
		Message: message,
	}
	l.alerts = append(l.alerts, a)
	return a.ID
}

// Danger appends an error alert
func (l *List) Danger(title, message string) string {
	return l.Add(VariantDanger, title, message)
}

// Clear drops every alert
func (l *List) Clear() {
	l.alerts = nil
}

// All returns the alerts in the order they were raised
func (l *List) All() []Alert {
	return l.alerts
}

// Len returns the number of alerts
func (l *List) Len() int {
	return len(l.alerts)
}
