package vitals

import (
	"bytes"
	"encoding/csv"
	"sort"
	"strconv"
	"time"

	"github.com/vcscsvcscs/vitals-tracker/pkg/model"
)

const (
	csvDateLayout = "1/2/2006"
	csvTimeLayout = "03:04 PM"

	bloodPressureTitle = "Blood Pressure Data"
	pulseTitle         = "Pulse Rate Data"
	noDataLine         = "No data available"
)

var (
	bloodPressureHeader = []string{"date", "time", "systolic", "diastolic", "unit"}
	pulseHeader         = []string{"date", "time", "pulse", "unit"}
)

// Projection is the tabular view of a raw listing handed to the AI
type Projection struct {
	BloodPressure [][]string
	Pulse         [][]string
}

type csvRow struct {
	at     time.Time
	fields []string
}

// Project builds both blocks from the raw listing. A record contributes to a
// block when it has the block's object and a parseable timestamp; each block
// is sorted ascending by date and time to the minute.
func Project(raw RawCollection, loc *time.Location) Projection {
	var bp, pulse []csvRow

	for _, entry := range raw {
		vs := entry.VitalSigns
		ts, ok := vs.Timestamp.Time(loc)
		if !ok {
			continue
		}
		ts = ts.In(loc)
		date, clock := ts.Format(csvDateLayout), ts.Format(csvTimeLayout)

		if vs.BloodPressure != nil {
			systolic, _ := vs.BloodPressure.Field("systolic").Int()
			diastolic, _ := vs.BloodPressure.Field("diastolic").Int()
			bp = append(bp, csvRow{at: ts, fields: []string{
				date, clock, strconv.Itoa(systolic), strconv.Itoa(diastolic), model.UnitMmHg,
			}})
		}
		if vs.PulseRate != nil {
			value, _ := vs.PulseRate.Field("value").Int()
			pulse = append(pulse, csvRow{at: ts, fields: []string{
				date, clock, strconv.Itoa(value), model.UnitBPM,
			}})
		}
	}

	return Projection{
		BloodPressure: sortRows(bp),
		Pulse:         sortRows(pulse),
	}
}

func sortRows(rows []csvRow) [][]string {
	sort.SliceStable(rows, func(i, j int) bool {
		return rows[i].at.Truncate(time.Minute).Before(rows[j].at.Truncate(time.Minute))
	})
	out := make([][]string, 0, len(rows))
	for _, r := range rows {
		out = append(out, r.fields)
	}
	return out
}

// String renders the blood pressure block followed by the pulse block
func (p Projection) String() string {
	var buf bytes.Buffer
	writeBlock(&buf, bloodPressureTitle, bloodPressureHeader, p.BloodPressure)
	writeBlock(&buf, pulseTitle, pulseHeader, p.Pulse)
	return buf.String()
}

// Empty reports whether neither block has a row
func (p Projection) Empty() bool {
	return len(p.BloodPressure) == 0 && len(p.Pulse) == 0
}

func writeBlock(buf *bytes.Buffer, title string, header []string, rows [][]string) {
	buf.WriteString(title)
	buf.WriteByte('\n')
	if len(rows) == 0 {
		buf.WriteString(noDataLine)
		buf.WriteString("\n\n")
		return
	}
	w := csv.NewWriter(buf)
	_ = w.Write(header)
	_ = w.WriteAll(rows)
	buf.WriteByte('\n')
}
