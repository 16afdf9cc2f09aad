package traffic

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/platformbuilds/evitalab-core/internal/metrics"
	"github.com/platformbuilds/evitalab-core/internal/models"
	"github.com/platformbuilds/evitalab-core/pkg/logger"
)

const noStatisticsYet = "No statistics yet, the closing record has not been captured."

// Context is the state of one reconstruction pass. It is not safe for concurrent
// use and must be fed records in server order.
type Context struct {
	catalogName   string
	roots         []*VisualisationDefinition
	sessions      map[uuid.UUID]*VisualisationDefinition
	sourceQueries map[uuid.UUID]*VisualisationDefinition
	orphans       int
}

func NewContext(catalogName string) *Context {
	return &Context{
		catalogName:   catalogName,
		sessions:      make(map[uuid.UUID]*VisualisationDefinition),
		sourceQueries: make(map[uuid.UUID]*VisualisationDefinition),
	}
}

// Roots returns the top level nodes reconstructed so far.
func (c *Context) Roots() []*VisualisationDefinition {
	return c.roots
}

// Orphans counts closing records whose start was not part of the pass.
func (c *Context) Orphans() int {
	return c.orphans
}

func (c *Context) attach(node, parent *VisualisationDefinition) {
	if parent == nil {
		c.roots = append(c.roots, node)
		return
	}
	parent.AddChild(node)
}

// Processor turns traffic records into visualisation nodes.
type Processor struct {
	logger logger.Logger
}

func NewProcessor(log logger.Logger) *Processor {
	return &Processor{logger: log}
}

// Process visualises records into ctx in the given order and returns the roots.
func (p *Processor) Process(ctx *Context, records []models.TrafficRecord) []*VisualisationDefinition {
	v := &visualiser{ctx: ctx, logger: p.logger}
	for _, r := range records {
		if r == nil {
			continue
		}
		r.Accept(v)
		metrics.TrafficRecordsVisualised.WithLabelValues(string(r.Header().Type)).Inc()
	}
	return ctx.Roots()
}

// visualiser handles each record kind; the visitor interface makes the dispatch
// exhaustive.
type visualiser struct {
	ctx    *Context
	logger logger.Logger
}

func (v *visualiser) VisitSessionStart(r *models.SessionStartRecord) {
	node := newDefinition(r, "Session "+shortID(r.SessionID), fmt.Sprintf("catalog version %d", r.CatalogVersion))
	node.Control = ControlParentStart
	node.AddMetadata(GroupGeneral, headerItems(&r.TrafficRecordHeader)...)
	node.AddMetadata(GroupStatistics, MetadataItem{
		Identifier: ItemNoStatistics,
		Title:      "Statistics",
		Value:      noStatisticsYet,
		Severity:   SeverityWarning,
	})
	sessionID := r.SessionID
	node.Actions = append(node.Actions, Action{
		Kind:      ActionFilterBySession,
		Title:     "Show only this session",
		Catalog:   v.ctx.catalogName,
		SessionID: &sessionID,
	})
	v.ctx.sessions[r.SessionID] = node
	v.ctx.attach(node, nil)
}

func (v *visualiser) VisitSessionClose(r *models.SessionCloseRecord) {
	node, ok := v.ctx.sessions[r.SessionID]
	if !ok {
		v.orphan(r, "session close without captured session start", "session_id", r.SessionID.String())
		return
	}
	node.ReplaceMetadata(GroupStatistics, ItemNoStatistics,
		countItem("records", "Records", r.TrafficRecordCount),
		countItem("queries", "Queries", r.QueryCount),
		countItem("fetches", "Entity fetches", r.EntityFetchCount),
		countItem("mutations", "Mutations", r.MutationCount),
		MetadataItem{Identifier: "duration", Title: "Session duration", Value: formatDuration(r.Duration), Severity: SeverityInfo},
	)
	if r.TrafficRecordsMissedOut > 0 {
		node.AddMetadata(GroupStatistics, MetadataItem{
			Identifier: "missedOut",
			Title:      "Records missed out",
			Value:      strconv.Itoa(int(r.TrafficRecordsMissedOut)),
			Severity:   SeverityWarning,
		})
	}
	node.SetError(joinErrors(node.Source.Header().FinishedWithError, r.FinishedWithError))
	node.Control = ControlParentEnd
}

func (v *visualiser) VisitQuery(r *models.QueryRecord) {
	node := newDefinition(r, "Query", r.QueryDescription)
	node.AddMetadata(GroupGeneral, headerItems(&r.TrafficRecordHeader)...)
	node.AddMetadata(GroupGeneral,
		countItem("totalRecordCount", "Total records", r.TotalRecordCount),
		countItem("returnedRecordCount", "Returned records", int32(len(r.PrimaryKeys))),
	)
	node.AddMetadata(GroupGeneral, labelItems(r.Labels)...)
	node.Actions = append(node.Actions, v.openQuery(r.Query, "evitaql"))
	v.ctx.attach(node, v.parentOf(r.SessionID, r.Labels))
}

func (v *visualiser) VisitFetch(r *models.FetchRecord) {
	node := newDefinition(r, "Entity fetch", fmt.Sprintf("primary key %d", r.PrimaryKey))
	node.AddMetadata(GroupGeneral, headerItems(&r.TrafficRecordHeader)...)
	node.AddMetadata(GroupGeneral, labelItems(r.Labels)...)
	node.Actions = append(node.Actions, v.openQuery(r.Query, "evitaql"))
	v.ctx.attach(node, v.parentOf(r.SessionID, r.Labels))
}

func (v *visualiser) VisitEnrichment(r *models.EnrichmentRecord) {
	node := newDefinition(r, "Entity enrichment", fmt.Sprintf("primary key %d", r.PrimaryKey))
	node.AddMetadata(GroupGeneral, headerItems(&r.TrafficRecordHeader)...)
	node.AddMetadata(GroupGeneral, labelItems(r.Labels)...)
	node.Actions = append(node.Actions, v.openQuery(r.Query, "evitaql"))
	v.ctx.attach(node, v.parentOf(r.SessionID, r.Labels))
}

func (v *visualiser) VisitMutation(r *models.MutationRecord) {
	node := newDefinition(r, "Mutation", firstLine(r.Mutation))
	node.AddMetadata(GroupGeneral, headerItems(&r.TrafficRecordHeader)...)
	v.ctx.attach(node, v.ctx.sessions[r.SessionID])
}

func (v *visualiser) VisitSourceQuery(r *models.SourceQueryRecord) {
	node := newDefinition(r, r.QueryType+" query", firstLine(r.SourceQuery))
	node.Control = ControlParentStart
	node.AddMetadata(GroupGeneral, headerItems(&r.TrafficRecordHeader)...)
	node.AddMetadata(GroupGeneral, labelItems(r.Labels)...)
	node.AddMetadata(GroupStatistics, MetadataItem{
		Identifier: ItemNoStatistics,
		Title:      "Statistics",
		Value:      noStatisticsYet,
		Severity:   SeverityWarning,
	})
	if strings.EqualFold(r.QueryType, "graphql") {
		node.Actions = append(node.Actions, v.openQuery(r.SourceQuery, "graphql"))
	}
	sourceQueryID := r.SourceQueryID
	node.Actions = append(node.Actions, Action{
		Kind:          ActionFilterBySourceQuery,
		Title:         "Show only queries of this request",
		Catalog:       v.ctx.catalogName,
		SourceQueryID: &sourceQueryID,
	})
	v.ctx.sourceQueries[r.SourceQueryID] = node
	v.ctx.attach(node, v.ctx.sessions[r.SessionID])
}

func (v *visualiser) VisitSourceQueryStatistics(r *models.SourceQueryStatisticsRecord) {
	node, ok := v.ctx.sourceQueries[r.SourceQueryID]
	if !ok {
		v.orphan(r, "source query statistics without captured source query", "source_query_id", r.SourceQueryID.String())
		return
	}
	node.ReplaceMetadata(GroupStatistics, ItemNoStatistics,
		countItem("returnedRecordCount", "Returned records", r.ReturnedRecordCount),
		countItem("totalRecordCount", "Total records", r.TotalRecordCount),
		MetadataItem{Identifier: "duration", Title: "Request duration", Value: formatDuration(r.Duration), Severity: SeverityInfo},
	)
	node.SetError(joinErrors(node.Source.Header().FinishedWithError, r.FinishedWithError))
	node.Control = ControlParentEnd
}

// parentOf prefers the source query a record was translated from over its session.
func (v *visualiser) parentOf(sessionID uuid.UUID, labels []models.Label) *VisualisationDefinition {
	if id, ok := models.SourceQueryID(labels); ok {
		if node, ok := v.ctx.sourceQueries[id]; ok {
			return node
		}
	}
	return v.ctx.sessions[sessionID]
}

func (v *visualiser) openQuery(q, language string) Action {
	return Action{
		Kind:     ActionOpenQuery,
		Title:    "Open in query console",
		Catalog:  v.ctx.catalogName,
		Language: language,
		Query:    q,
	}
}

func (v *visualiser) orphan(r models.TrafficRecord, msg string, kv ...interface{}) {
	v.ctx.orphans++
	h := r.Header()
	fields := append([]interface{}{"catalog", v.ctx.catalogName, "session_sequence_order", h.SessionSequenceOrder}, kv...)
	v.logger.Warn(msg, fields...)
}

func headerItems(h *models.TrafficRecordHeader) []MetadataItem {
	return []MetadataItem{
		{Identifier: "created", Title: "Created", Value: h.Created.Format(time.RFC3339), Severity: SeverityInfo},
		{Identifier: "duration", Title: "Duration", Value: formatDuration(h.Duration), Severity: durationSeverity(h.Duration)},
		{Identifier: "fetchedSize", Title: "Fetched bytes", Value: strconv.Itoa(int(h.IOFetchedSizeBytes)), Severity: SeverityInfo},
		{Identifier: "fetchCount", Title: "Disk fetches", Value: strconv.Itoa(int(h.IOFetchCount)), Severity: SeverityInfo},
	}
}

func labelItems(labels []models.Label) []MetadataItem {
	items := make([]MetadataItem, 0, len(labels))
	for _, l := range labels {
		items = append(items, MetadataItem{Identifier: "label:" + l.Name, Title: l.Name, Value: l.Value, Severity: SeverityInfo})
	}
	return items
}

func countItem(identifier, title string, n int32) MetadataItem {
	return MetadataItem{Identifier: identifier, Title: title, Value: strconv.Itoa(int(n)), Severity: SeverityInfo}
}

// durationSeverity flags slow records the way the console colours them.
func durationSeverity(d time.Duration) Severity {
	switch {
	case d >= time.Second:
		return SeverityError
	case d >= 100*time.Millisecond:
		return SeverityWarning
	default:
		return SeveritySuccess
	}
}

func formatDuration(d time.Duration) string {
	return strconv.FormatInt(d.Milliseconds(), 10) + " ms"
}

func firstLine(s string) string {
	s = strings.TrimSpace(s)
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		return s[:i] + " ..."
	}
	return s
}

func shortID(id uuid.UUID) string {
	return id.String()[:8]
}

var _ models.TrafficRecordVisitor = (*visualiser)(nil)
