package formatter

import (
	"fmt"
	"strconv"
	"time"

	"github.com/futig/permitcheck/internal/entity"
)

const (
	reportTitle    = "PermitCheck AI Report"
	checklistTitle = "Permit Application Fix Checklist"
	reportFooter   = "Generated by PermitCheck AI - AI-Powered Feasibility and Permit Review Assistant"
	generatedAtFmt = "January 02, 2006 at 03:04 PM"
)

type blockKind int

const (
	blockTitle blockKind = iota
	blockHeading
	blockParagraph
	blockLabel
	blockBullet
	blockSpacer
	blockPageBreak
)

// block is one renderer-neutral element of an export document.
type block struct {
	kind  blockKind
	label string
	text  string
}

// checklistRow is one action item of the fix checklist.
type checklistRow struct {
	priority    entity.Priority
	description string
}

func title(text string) block { return block{kind: blockTitle, text: text} }
func heading(text string) block { return block{kind: blockHeading, text: text} }
func paragraph(text string) block { return block{kind: blockParagraph, text: text} }
func labeled(label, text string) block { return block{kind: blockLabel, label: label, text: text} }
func bullet(text string) block { return block{kind: blockBullet, text: text} }
func spacer() block { return block{kind: blockSpacer} }
func pageBreak() block { return block{kind: blockPageBreak} }

// buildReport lays out every populated part of the aggregated state. Absent parts are skipped.
func buildReport(req *entity.ExportRequest, now time.Time) []block {
	blocks := []block{
		title(reportTitle),
		paragraph("Generated: " + now.Format(generatedAtFmt)),
		spacer(),
	}

	if p := req.Project; p != nil {
		blocks = append(blocks,
			heading("Project Information"),
			labeled("Description:", orNA(p.Description)),
			labeled("Address:", orNA(p.Address)),
			labeled("Structure Type:", orNA(string(p.StructureType))),
			labeled("Property Type:", orNA(string(p.PropertyType))),
		)
		if p.ParcelID != "" {
			blocks = append(blocks, labeled("Parcel ID:", p.ParcelID))
		}
		if d := p.Dimensions; d.Length != nil || d.Width != nil || d.Height != nil {
			blocks = append(blocks, labeled("Dimensions:", fmt.Sprintf("%s' x %s' x %s'",
				formatMeasure(d.Length), formatMeasure(d.Width), formatMeasure(d.Height))))
		}
		blocks = append(blocks, spacer())
	}

	if f := req.Feasibility; f != nil {
		confidence := 0
		if f.ConfidenceScore != nil {
			confidence = *f.ConfidenceScore
		}
		verdict := f.Verdict
		if verdict == "" {
			verdict = entity.VerdictUnknown
		}
		blocks = append(blocks,
			heading("Feasibility Assessment"),
			labeled("Verdict:", fmt.Sprintf("%s (Confidence: %d%%)", verdict, confidence)),
		)
		if f.ZoningInfo != nil {
			blocks = append(blocks, labeled("Zoning:", fmt.Sprintf("%s (%s)", f.ZoningInfo.District, f.ZoningInfo.Classification)))
		}
		if f.ComplianceSummary != "" {
			blocks = append(blocks, spacer(), labeled("Compliance Summary:", ""), paragraph(f.ComplianceSummary))
		}
		blocks = appendList(blocks, "Issues Identified:", f.Issues)
		blocks = appendList(blocks, "Recommendations:", f.Recommendations)
		blocks = appendList(blocks, "Required Permits:", f.RequiredPermits)
		blocks = append(blocks, spacer())
	}

	if n := req.Narrative; n != nil {
		blocks = append(blocks,
			heading("Construction Narrative"),
			paragraph(n.Narrative),
			spacer(),
		)
	}

	if v := req.Visual; v != nil && !v.Failed() && v.ImageURL != "" {
		blocks = append(blocks,
			heading("Project Visual"),
			labeled("Type:", string(v.VisualType)),
			labeled("Image:", v.ImageURL),
			spacer(),
		)
	}

	if r := req.Review; r != nil {
		risk := r.RejectionRisk
		if risk == "" {
			risk = entity.RiskUnknown
		}
		blocks = append(blocks,
			pageBreak(),
			heading("Document Review Results"),
			labeled("Rejection Risk:", string(risk)),
		)
		if r.OverallAssessment != "" {
			blocks = append(blocks, spacer(), labeled("Overall Assessment:", ""), paragraph(r.OverallAssessment))
		}

		issues := make([]string, 0, len(r.Issues))
		for _, issue := range r.Issues {
			issues = append(issues, orDefault(issue.Description, "Unknown issue"))
		}
		blocks = appendList(blocks, "Issues Found:", issues)

		fixes := make([]string, 0, len(r.Fixes))
		for _, fix := range r.Fixes {
			fixes = append(fixes, orDefault(fix.Description, "Unknown fix"))
		}
		blocks = appendList(blocks, "Recommended Fixes:", fixes)
	}

	return append(blocks, spacer(), paragraph(reportFooter))
}

// buildChecklist returns the header blocks, the action items and the trailing blocks of the checklist.
func buildChecklist(req *entity.ExportRequest, now time.Time) ([]block, []checklistRow, []block) {
	head := []block{
		title(checklistTitle),
		paragraph("Generated: " + now.Format(generatedAtFmt)),
		spacer(),
	}

	var rows []checklistRow
	var tail []block

	if r := req.Review; r != nil {
		risk := r.RejectionRisk
		if risk == "" {
			risk = entity.RiskUnknown
		}
		head = append(head, labeled("Current Rejection Risk:", string(risk)), spacer())

		for _, fix := range r.Fixes {
			rows = append(rows, checklistRow{
				priority:    fix.PriorityOrDefault(),
				description: orDefault(fix.Description, "Unknown fix"),
			})
		}
		if len(rows) > 0 {
			head = append(head, heading("Action Items:"))
		}

		if len(r.MissingDocuments) > 0 {
			tail = append(tail, spacer(), heading("Missing Documents:"))
			for _, doc := range r.MissingDocuments {
				tail = append(tail, paragraph("[ ] "+doc))
			}
		}
	} else {
		head = append(head, paragraph("No document review is available yet. Upload a draft application to get action items."))
	}

	tail = append(tail,
		spacer(),
		heading("Instructions:"),
		paragraph("1. Check off each item as you complete it"),
		paragraph("2. Focus on High priority items first"),
		paragraph("3. Re-upload your revised document for another review"),
		paragraph("4. Repeat until rejection risk is Low"),
	)

	return head, rows, tail
}

func appendList(blocks []block, label string, items []string) []block {
	if len(items) == 0 {
		return blocks
	}
	blocks = append(blocks, spacer(), labeled(label, ""))
	for _, item := range items {
		blocks = append(blocks, bullet(item))
	}
	return blocks
}

func formatMeasure(v *float64) string {
	if v == nil {
		return "N/A"
	}
	return strconv.FormatFloat(*v, 'f', -1, 64)
}

func orNA(s string) string {
	return orDefault(s, "N/A")
}

func orDefault(s, def string) string {
	if s == "" {
		return def
	}
	return s
}
