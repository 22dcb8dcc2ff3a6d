// Package sheet maps orders onto the positional rows of the order sheet.
package sheet

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/caovinhphuc/mia-logistics-manager-sub000/internal/domain/model"
	"github.com/caovinhphuc/mia-logistics-manager-sub000/internal/sla"
)

// DefaultSLA is the deadline offset substituted when a row has no usable deadline.
const DefaultSLA = 24 * time.Hour

var timeLayouts = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02T15:04",
	"2006-01-02 15:04",
	"02/01/2006 15:04:05",
	"02/01/2006 15:04",
	"2006-01-02",
}

// Issue describes a value the decoder could not interpret and replaced by a default.
type Issue struct {
	Row     int
	Column  string
	Message string
}

func (i Issue) String() string {
	if i.Column == "" {
		return fmt.Sprintf("row %d: %s", i.Row, i.Message)
	}
	return fmt.Sprintf("row %d, column %s: %s", i.Row, i.Column, i.Message)
}

// IsHeader reports whether row is the sheet's header line.
func IsHeader(row model.RawRow) bool {
	return strings.EqualFold(strings.TrimSpace(row.Cell(model.ColID)), model.ColumnNames[model.ColID])
}

// Header returns the header row.
func Header() model.RawRow {
	return append(model.RawRow(nil), model.ColumnNames[:]...)
}

// DecodeRows turns rows into orders. It never fails as a whole: malformed
// values are defaulted and reported as issues; rows without an identifier or
// repeating an identifier already seen are skipped. now is used for defaults
// and loc interprets timestamps that carry no zone.
func DecodeRows(rows []model.RawRow, now time.Time, loc *time.Location) ([]model.Order, []Issue) {
	if loc == nil {
		loc = time.Local
	}
	orders := make([]model.Order, 0, len(rows))
	var issues []Issue
	seen := make(map[string]struct{}, len(rows))

	for i, row := range rows {
		if i == 0 && IsHeader(row) {
			continue
		}
		d := decoder{row: row, index: i, loc: loc}
		order, ok := d.decode(now)
		issues = append(issues, d.issues...)
		if !ok {
			continue
		}
		if _, dup := seen[order.ID]; dup {
			issues = append(issues, Issue{Row: i, Column: model.ColumnNames[model.ColID], Message: fmt.Sprintf("duplicate id %q skipped", order.ID)})
			continue
		}
		seen[order.ID] = struct{}{}
		orders = append(orders, order)
	}
	return orders, issues
}

type decoder struct {
	row    model.RawRow
	index  int
	loc    *time.Location
	issues []Issue
}

func (d *decoder) cell(col int) string {
	return strings.TrimSpace(d.row.Cell(col))
}

func (d *decoder) fail(col int, format string, args ...any) {
	d.issues = append(d.issues, Issue{Row: d.index, Column: model.ColumnNames[col], Message: fmt.Sprintf(format, args...)})
}

func (d *decoder) decode(now time.Time) (model.Order, bool) {
	id := d.cell(model.ColID)
	if id == "" {
		if !isBlank(d.row) {
			d.fail(model.ColID, "missing id, row skipped")
		}
		return model.Order{}, false
	}

	order := model.Order{
		ID:          id,
		Platform:    d.cell(model.ColPlatform),
		CustomerID:  d.cell(model.ColCustomerID),
		AssignedTo:  d.cell(model.ColAssignedTo),
		Notes:       d.row.Cell(model.ColNotes),
		CarrierName: d.cell(model.ColCarrierName),
		UpdatedBy:   d.cell(model.ColUpdatedBy),
	}

	order.Status = model.OrderStatusPending
	if raw := d.cell(model.ColStatus); raw != "" {
		if status, ok := model.ParseOrderStatus(raw); ok {
			order.Status = status
		} else {
			d.fail(model.ColStatus, "unknown status %q, using %s", raw, model.OrderStatusPending)
		}
	}

	created, ok := d.time(model.ColCreatedAt)
	if !ok {
		created = now
	}
	order.CreatedAt = created

	deadline, ok := d.time(model.ColSLADeadline)
	if !ok {
		deadline = created.Add(DefaultSLA)
	}
	order.SLADeadline = deadline

	updated, ok := d.time(model.ColUpdatedAt)
	if !ok {
		updated = created
	}
	order.UpdatedAt = updated

	if raw := d.cell(model.ColCompletedAt); raw != "" {
		if completed, ok := d.time(model.ColCompletedAt); ok {
			order.CompletedAt = &completed
		}
	}

	order.TotalValue = decimal.Zero
	if raw := d.cell(model.ColTotalValue); raw != "" {
		value, err := decimal.NewFromString(strings.ReplaceAll(raw, ",", ""))
		if err != nil {
			d.fail(model.ColTotalValue, "invalid value %q, using 0", raw)
		} else {
			order.TotalValue = value
		}
	}

	if raw := d.cell(model.ColItems); raw != "" {
		var items []model.LineItem
		if err := json.Unmarshal([]byte(raw), &items); err != nil {
			d.fail(model.ColItems, "invalid line items: %v", err)
		} else {
			order.Items = items
		}
	}

	return order, true
}

// time parses the cell at col; a missing cell is reported like a malformed one
// since every timestamp column is required by the sheet layout.
func (d *decoder) time(col int) (time.Time, bool) {
	raw := d.cell(col)
	if raw == "" {
		if col != model.ColCompletedAt {
			d.fail(col, "missing timestamp, using default")
		}
		return time.Time{}, false
	}
	for _, layout := range timeLayouts {
		if t, err := time.ParseInLocation(layout, raw, d.loc); err == nil {
			return t, true
		}
	}
	d.fail(col, "invalid timestamp %q, using default", raw)
	return time.Time{}, false
}

func isBlank(row model.RawRow) bool {
	for _, c := range row {
		if strings.TrimSpace(c) != "" {
			return false
		}
	}
	return true
}

// EncodeRows renders orders in sheet layout. The priority column carries the
// tier at now for human readers; it is ignored when the sheet is read back.
func EncodeRows(orders []model.Order, now time.Time) []model.RawRow {
	rows := make([]model.RawRow, 0, len(orders))
	for _, o := range orders {
		rows = append(rows, EncodeRow(o, now))
	}
	return rows
}

// EncodeRow renders a single order.
func EncodeRow(o model.Order, now time.Time) model.RawRow {
	row := make(model.RawRow, model.RowColumns)
	row[model.ColID] = o.ID
	row[model.ColPlatform] = o.Platform
	row[model.ColCustomerID] = o.CustomerID
	row[model.ColPriority] = string(sla.Classify(o.SLADeadline, now).Priority)
	row[model.ColStatus] = string(o.Status)
	row[model.ColCreatedAt] = formatTime(o.CreatedAt)
	row[model.ColSLADeadline] = formatTime(o.SLADeadline)
	row[model.ColAssignedTo] = o.AssignedTo
	row[model.ColTotalValue] = o.TotalValue.String()
	row[model.ColNotes] = o.Notes
	row[model.ColCarrierName] = o.CarrierName
	row[model.ColUpdatedAt] = formatTime(o.UpdatedAt)
	row[model.ColUpdatedBy] = o.UpdatedBy
	if o.CompletedAt != nil {
		row[model.ColCompletedAt] = formatTime(*o.CompletedAt)
	}
	if len(o.Items) > 0 {
		if data, err := json.Marshal(o.Items); err == nil {
			row[model.ColItems] = string(data)
		}
	}
	return row
}

func formatTime(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Format(time.RFC3339Nano)
}
