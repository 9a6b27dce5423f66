package services

import (
	"bufio"
	"errors"
	"regexp"
	"strconv"
	"strings"

	"shiptrack/internal/core/domain/model/carrier"
	"shiptrack/internal/core/domain/model/shipment"
)

// ErrReportParseFailure is returned when a report document yields zero
// shipment blocks. Individual malformed lines never cause it: they are
// skipped so one corrupt line cannot abort the whole report.
var ErrReportParseFailure = errors.New("report parse failure")

// parserSection is the state of the line-oriented report parser.
type parserSection int

const (
	sectionAWB parserSection = iota
	sectionHeader
	sectionAccounts
	sectionReceiver
	sectionEvents
)

var (
	// awbPrefix recognizes the line that begins a new shipment block.
	awbPrefix = regexp.MustCompile(`^AWB\s*:\s*(\S+)`)

	// headerPattern recognizes the fixed-order header line:
	// origin, destination, date-time, product, piece count, weight.
	headerPattern = regexp.MustCompile(
		`^([A-Z]{3})\s+([A-Z]{3})\s+(\d{2}\.\d{2}\.\d{4}\s\d{2}:\d{2})\s+(\S+)\s+(\d+)\s+(\d+(?:\.\d+)?)\s*$`)

	// receiverPrefix recognizes the consignee line.
	receiverPrefix = regexp.MustCompile(`^Receiver\s*:\s*(.+)$`)

	// accountLine recognizes account references inside the accounts section.
	accountLine = regexp.MustCompile(`^(?:ACCT\s+)?(\d{5,})\s*$`)

	// columnSplit splits event lines on runs of two-or-more spaces. Single
	// spaces inside a column (remark text, date-time) survive the split.
	columnSplit = regexp.MustCompile(`\s{2,}`)
)

// incidentCodes are event codes the cargo carrier flags as incidents even
// though they normalize to Pending.
var incidentCodes = map[string]bool{
	"MS": true,
	"TD": true,
}

// CargoReportParser parses the cargo carrier's free-text tracking report.
// One document contains many shipment blocks; parsing is line-oriented with
// an explicit section state machine (awb, header, accounts, receiver,
// events). The parser is pure and safe for concurrent use.
type CargoReportParser struct{}

// NewCargoReportParser creates a new CargoReportParser.
func NewCargoReportParser() CargoReportParser {
	return CargoReportParser{}
}

// Parse splits the document into shipment blocks with their retained events.
//
// Rules:
//   - a line beginning a new shipment block always flushes the previous
//     shipment and starts a new one, so back-to-back AWB lines yield two
//     shipments with zero events each, never a merged record
//   - an event line is retained only when its code is non-empty and its
//     awb/pid column equals the current shipment's identifier, which
//     prevents cross-shipment bleed from mis-split lines
//   - malformed individual lines are skipped without aborting the parse
//
// Returns ErrReportParseFailure (wrapped) when the document yields zero
// shipments.
func (p CargoReportParser) Parse(document string) ([]carrier.ReportShipment, error) {
	var (
		shipments []carrier.ReportShipment
		current   *carrier.ReportShipment
		section   = sectionAWB
	)

	flush := func() {
		if current != nil {
			shipments = append(shipments, *current)
			current = nil
		}
	}

	scanner := bufio.NewScanner(strings.NewReader(document))
	for scanner.Scan() {
		line := strings.TrimRight(scanner.Text(), " \t")
		trimmed := strings.TrimSpace(line)
		if trimmed == "" {
			continue
		}

		if m := awbPrefix.FindStringSubmatch(trimmed); m != nil {
			flush()
			current = &carrier.ReportShipment{AWB: m[1]}
			section = sectionHeader
			continue
		}
		if current == nil {
			continue
		}

		switch section {
		case sectionHeader:
			if p.parseHeader(trimmed, current) {
				section = sectionAccounts
				continue
			}
			// Not a header; the block may omit it. Fall through to the
			// later sections so events are not lost.
			section = sectionAccounts
			fallthrough
		case sectionAccounts, sectionReceiver, sectionEvents:
			if m := receiverPrefix.FindStringSubmatch(trimmed); m != nil {
				current.Receiver = strings.TrimSpace(m[1])
				section = sectionEvents
				continue
			}
			if section == sectionAccounts {
				if m := accountLine.FindStringSubmatch(trimmed); m != nil {
					current.Accounts = append(current.Accounts, m[1])
					continue
				}
			}
			if event, ok := p.parseEventLine(line, current.AWB); ok {
				current.Events = append(current.Events, event)
				section = sectionEvents
			}
			// Anything else is a malformed or irrelevant line; skip it.
		}
	}
	flush()

	if len(shipments) == 0 {
		return nil, ErrReportParseFailure
	}
	return shipments, nil
}

// parseHeader fills the block's header fields from the fixed-order token
// pattern. Reports false when the line is not a header.
func (p CargoReportParser) parseHeader(line string, current *carrier.ReportShipment) bool {
	m := headerPattern.FindStringSubmatch(line)
	if m == nil {
		return false
	}

	current.Origin = m[1]
	current.Destination = m[2]
	if ts, ok := carrier.ParseEventTime(m[3]); ok {
		current.ShippedAt = ts
	}
	current.Product = m[4]
	current.Pieces, _ = strconv.Atoi(m[5])
	current.Weight, _ = strconv.ParseFloat(m[6], 64)
	return true
}

// parseEventLine splits an event line into its logical columns:
// awbPid, origin, destination, facilityId, route, code, eventDateTime,
// dataAvailable, remark. Lines with fewer than seven columns, an empty
// code, or a foreign awb/pid are dropped.
func (p CargoReportParser) parseEventLine(line string, awb string) (carrier.Event, bool) {
	columns := columnSplit.Split(strings.TrimSpace(line), -1)
	if len(columns) < 7 {
		return carrier.Event{}, false
	}

	awbPid := columns[0]
	code := columns[5]
	rawDate := columns[6]
	if code == "" || awbPid != awb {
		return carrier.Event{}, false
	}

	var remark string
	if len(columns) >= 9 {
		remark = columns[8]
	}

	occurredAt, _ := carrier.ParseEventTime(rawDate)

	return carrier.Event{
		Type:        code,
		Status:      p.statusForCode(code),
		OccurredAt:  occurredAt,
		RawDate:     rawDate,
		Description: remark,
		Location:    columns[1],
		Incident:    incidentCodes[code],
	}, true
}

// statusForCode maps a report event code to its canonical status.
// Unknown codes default to Pending: the cargo carrier invents codes freely
// and an unmapped one must not stall the shipment in Unknown.
func (p CargoReportParser) statusForCode(code string) shipment.Status {
	if status := carrier.FamilyOf(code).StatusOf(); status != shipment.Unspecified {
		return status
	}
	return shipment.Pending
}
