// Package traffic reconstructs a display tree from the flat, chronologically
// ordered traffic history of an evitaDB catalog.
package traffic

import (
	"strings"

	"github.com/google/uuid"

	"github.com/platformbuilds/evitalab-core/internal/models"
)

type Severity string

const (
	SeverityInfo    Severity = "info"
	SeveritySuccess Severity = "success"
	SeverityWarning Severity = "warning"
	SeverityError   Severity = "error"
)

// Metadata group identifiers.
const (
	GroupGeneral    = "general"
	GroupStatistics = "statistics"
)

// Metadata item identifiers the reconstruction refers to after creation.
const (
	ItemNoStatistics = "noStatistics"
	ItemError        = "error"
)

type MetadataItem struct {
	Identifier string   `json:"identifier"`
	Title      string   `json:"title"`
	Value      string   `json:"value"`
	Severity   Severity `json:"severity"`
}

type MetadataGroup struct {
	Identifier string         `json:"identifier"`
	Items      []MetadataItem `json:"items"`
}

type ActionKind string

const (
	ActionOpenQuery           ActionKind = "openQuery"
	ActionFilterBySession     ActionKind = "filterBySession"
	ActionFilterBySourceQuery ActionKind = "filterBySourceQuery"
)

// Action is something the console offers to do with a visualised record.
type Action struct {
	Kind          ActionKind `json:"kind"`
	Title         string     `json:"title"`
	Catalog       string     `json:"catalog,omitempty"`
	Language      string     `json:"language,omitempty"`
	Query         string     `json:"query,omitempty"`
	SessionID     *uuid.UUID `json:"sessionId,omitempty"`
	SourceQueryID *uuid.UUID `json:"sourceQueryId,omitempty"`
}

// ControlFlag marks nodes that group later records. A ParentStart node is still
// open for merges; it becomes ParentEnd once its closing record was merged.
type ControlFlag string

const (
	ControlNone        ControlFlag = "none"
	ControlParentStart ControlFlag = "parentStart"
	ControlParentEnd   ControlFlag = "parentEnd"
)

// VisualisationDefinition is one node of the reconstructed tree.
type VisualisationDefinition struct {
	Source   models.TrafficRecord       `json:"source"`
	Type     models.TrafficRecordType   `json:"type"`
	Title    string                     `json:"title"`
	Details  string                     `json:"details,omitempty"`
	Metadata []*MetadataGroup           `json:"metadata"`
	Actions  []Action                   `json:"actions,omitempty"`
	Children []*VisualisationDefinition `json:"children,omitempty"`
	Control  ControlFlag                `json:"control"`
	Error    *string                    `json:"error,omitempty"`
}

func newDefinition(record models.TrafficRecord, title, details string) *VisualisationDefinition {
	h := record.Header()
	d := &VisualisationDefinition{
		Source:  record,
		Type:    h.Type,
		Title:   title,
		Details: details,
		Control: ControlNone,
	}
	d.SetError(h.FinishedWithError)
	return d
}

// AddChild appends a child keeping arrival order.
func (d *VisualisationDefinition) AddChild(child *VisualisationDefinition) {
	d.Children = append(d.Children, child)
}

func (d *VisualisationDefinition) group(identifier string) *MetadataGroup {
	for _, g := range d.Metadata {
		if g.Identifier == identifier {
			return g
		}
	}
	g := &MetadataGroup{Identifier: identifier}
	d.Metadata = append(d.Metadata, g)
	return g
}

// AddMetadata appends items to a group, creating it on first use.
func (d *VisualisationDefinition) AddMetadata(group string, items ...MetadataItem) {
	g := d.group(group)
	g.Items = append(g.Items, items...)
}

// ReplaceMetadata replaces the item with the given identifier by items, or
// appends them when there is no such item.
func (d *VisualisationDefinition) ReplaceMetadata(group, identifier string, items ...MetadataItem) {
	g := d.group(group)
	for i, item := range g.Items {
		if item.Identifier != identifier {
			continue
		}
		replaced := make([]MetadataItem, 0, len(g.Items)-1+len(items))
		replaced = append(replaced, g.Items[:i]...)
		replaced = append(replaced, items...)
		replaced = append(replaced, g.Items[i+1:]...)
		g.Items = replaced
		return
	}
	g.Items = append(g.Items, items...)
}

// FindMetadata returns the item with the given identifier.
func (d *VisualisationDefinition) FindMetadata(group, identifier string) (MetadataItem, bool) {
	for _, g := range d.Metadata {
		if g.Identifier != group {
			continue
		}
		for _, item := range g.Items {
			if item.Identifier == identifier {
				return item, true
			}
		}
	}
	return MetadataItem{}, false
}

// SetError sets the error status and its metadata item. An empty message clears it.
func (d *VisualisationDefinition) SetError(message *string) {
	if message == nil || *message == "" {
		d.Error = nil
		d.removeMetadata(GroupGeneral, ItemError)
		return
	}
	msg := *message
	d.Error = &msg
	d.ReplaceMetadata(GroupGeneral, ItemError, MetadataItem{
		Identifier: ItemError,
		Title:      "Error",
		Value:      msg,
		Severity:   SeverityError,
	})
}

func (d *VisualisationDefinition) removeMetadata(group, identifier string) {
	for _, g := range d.Metadata {
		if g.Identifier != group {
			continue
		}
		kept := g.Items[:0]
		for _, item := range g.Items {
			if item.Identifier != identifier {
				kept = append(kept, item)
			}
		}
		g.Items = kept
	}
}

// joinErrors merges the error fields of a start and its closing record.
func joinErrors(a, b *string) *string {
	var parts []string
	for _, e := range []*string{a, b} {
		if e != nil && *e != "" {
			parts = append(parts, *e)
		}
	}
	if len(parts) == 0 {
		return nil
	}
	joined := strings.Join(parts, "; ")
	return &joined
}
