package facility

import (
	"encoding/csv"
	"encoding/json"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/google/uuid"
	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/hannesill/oasis/pkg/geocode"
)

// csvColumns maps source CSV headers to their roles. The dataset uses a mix
// of snake_case and camelCase headers.
var csvColumns = map[string]string{
	"unique_id":             "id",
	"name":                  "name",
	"address_city":          "city",
	"address_stateorregion": "region",
	"address_line1":         "address",
	"facilitytypeid":        "type",
	"specialties":           "specialties",
	"procedure":             "procedures",
	"equipment":             "equipment",
	"capability":            "capabilities",
	"description":           "description",
	"phone_numbers":         "phone",
	"lat":                   "lat",
	"long":                  "lng",
	"geocode_status":        "status",
}

// LoadCSVFile reads facility records from a CSV file.
func LoadCSVFile(path string) ([]Facility, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, eris.Wrapf(err, "csv: open %s", path)
	}
	defer f.Close() //nolint:errcheck
	return LoadCSV(f)
}

// LoadCSV parses facility records from CSV data. Unknown columns are ignored,
// rows without a name are skipped, and a missing unique_id gets a generated
// one so the row can still be upserted.
func LoadCSV(r io.Reader) ([]Facility, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1

	header, err := cr.Read()
	if err != nil {
		return nil, eris.Wrap(err, "csv: read header")
	}

	roles := make(map[int]string)
	for i, h := range header {
		if role, ok := csvColumns[strings.ToLower(strings.TrimSpace(h))]; ok {
			roles[i] = role
		}
	}
	if len(roles) == 0 {
		return nil, eris.New("csv: no recognized columns in header")
	}

	var facilities []Facility
	var skipped int
	for {
		record, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, eris.Wrap(err, "csv: read record")
		}

		var f Facility
		for i, value := range record {
			role, ok := roles[i]
			if !ok {
				continue
			}
			value = strings.TrimSpace(value)
			switch role {
			case "id":
				f.ID = value
			case "name":
				f.Name = value
			case "city":
				f.City = value
			case "region":
				f.Region = value
			case "address":
				f.AddressLine = value
			case "type":
				f.FacilityType = value
			case "specialties":
				f.Specialties = ParseListField(value)
			case "procedures":
				f.Procedures = ParseListField(value)
			case "equipment":
				f.Equipment = ParseListField(value)
			case "capabilities":
				f.Capabilities = ParseListField(value)
			case "description":
				f.Description = value
			case "phone":
				f.Phone = value
			case "lat":
				if v, err := strconv.ParseFloat(value, 64); err == nil {
					f.Lat = &v
				}
			case "lng":
				if v, err := strconv.ParseFloat(value, 64); err == nil {
					f.Lng = &v
				}
			case "status":
				f.GeocodeStatus = geocode.Status(value)
			}
		}

		if f.Name == "" {
			skipped++
			continue
		}
		if f.ID == "" {
			f.ID = uuid.New().String()
		}
		if f.GeocodeStatus == "" {
			if f.Lat != nil && f.Lng != nil {
				f.GeocodeStatus = geocode.StatusPrecise
			} else {
				f.GeocodeStatus = geocode.StatusUnresolved
			}
		}
		facilities = append(facilities, f)
	}

	if skipped > 0 {
		zap.L().Warn("csv: skipped rows without a name", zap.Int("skipped", skipped))
	}
	return facilities, nil
}

// ParseListField parses a multi-value CSV cell. The cleaned dataset stores
// array cells as Python repr strings with single quotes, e.g.
// "['item1', 'item2']"; JSON arrays, semicolon lists, and bare single values
// also occur in raw exports.
func ParseListField(raw string) []string {
	raw = strings.TrimSpace(raw)
	switch raw {
	case "", "[]", "None", "null", "nan":
		return nil
	}

	if strings.HasPrefix(raw, "[") && strings.HasSuffix(raw, "]") {
		var items []string
		if err := json.Unmarshal([]byte(raw), &items); err == nil {
			return trimNonEmpty(items)
		}
		return trimNonEmpty(splitReprList(raw[1 : len(raw)-1]))
	}
	if strings.Contains(raw, ";") {
		return trimNonEmpty(strings.Split(raw, ";"))
	}
	return []string{raw}
}

// splitReprList splits the inside of a single-quoted repr list on commas that
// fall outside quotes, so items like "St. Mary's Clinic, Accra" stay intact.
func splitReprList(inner string) []string {
	var items []string
	var sb strings.Builder
	var quote rune
	for _, r := range inner {
		switch {
		case quote == 0 && (r == '\'' || r == '"'):
			quote = r
		case r == quote:
			quote = 0
		case quote == 0 && r == ',':
			items = append(items, sb.String())
			sb.Reset()
		default:
			sb.WriteRune(r)
		}
	}
	items = append(items, sb.String())
	return items
}

func trimNonEmpty(items []string) []string {
	var out []string
	for _, item := range items {
		if item = strings.TrimSpace(item); item != "" {
			out = append(out, item)
		}
	}
	return out
}
