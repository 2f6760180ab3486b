package mask

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"strconv"
	"strings"

	"dnnbrain/internal/services"
)

// allChannels is the file-format keyword selecting every channel of a layer.
const allChannels = "all"

// Load replaces the mask's contents with the selection described by a
// .dmask.csv file. Each record names a layer followed by either the keyword
// "all" or the channel numbers of interest. Lines starting with '#' and blank
// lines are skipped.
func (m *Mask) Load(path string) error {
	file, err := os.Open(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return services.Wrap(services.ErrNotFound, "mask", "load", fmt.Sprintf("mask file %s", path), err)
		}
		return fmt.Errorf("open mask file: %w", err)
	}
	defer file.Close()

	loaded, err := Read(file)
	if err != nil {
		return fmt.Errorf("load %s: %w", path, err)
	}

	m.order = loaded.order
	m.channels = loaded.channels
	return nil
}

// Read parses a .dmask.csv document from r into a fresh mask.
func Read(r io.Reader) (*Mask, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.Comment = '#'
	reader.TrimLeadingSpace = true

	records, err := reader.ReadAll()
	if err != nil {
		return nil, services.Wrap(services.ErrFileFormat, "mask", "parse", "malformed csv", err)
	}

	m := New()
	for i, record := range records {
		layer := strings.TrimSpace(record[0])
		if layer == "" {
			return nil, services.Wrap(services.ErrFileFormat, "mask", "parse", fmt.Sprintf("record %d: empty layer name", i+1), nil)
		}
		if len(record) < 2 {
			return nil, services.Wrap(services.ErrFileFormat, "mask", "parse", fmt.Sprintf("record %d: layer %q has no channel specification", i+1, layer), nil)
		}

		var channels []int
		if !(len(record) == 2 && strings.EqualFold(strings.TrimSpace(record[1]), allChannels)) {
			channels = make([]int, 0, len(record)-1)
			for _, field := range record[1:] {
				value, err := strconv.Atoi(strings.TrimSpace(field))
				if err != nil {
					return nil, services.Wrap(services.ErrFileFormat, "mask", "parse", fmt.Sprintf("record %d: invalid channel number %q", i+1, field), nil)
				}
				if value < 1 {
					return nil, services.Wrap(services.ErrFileFormat, "mask", "parse", fmt.Sprintf("record %d: channel numbers are 1-based, got %d", i+1, value), nil)
				}
				channels = append(channels, value)
			}
		}

		// Duplicate layer rows follow Set semantics: the last row wins.
		if err := m.Set(layer, channels); err != nil {
			return nil, err
		}
	}
	return m, nil
}

// Save writes the mask to path in the .dmask.csv format, one record per layer
// in insertion order.
func (m *Mask) Save(path string) error {
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create mask file: %w", err)
	}
	defer file.Close()

	if err := m.Write(file); err != nil {
		return fmt.Errorf("save %s: %w", path, err)
	}
	return file.Close()
}

// Write serializes the mask to w in the .dmask.csv format.
func (m *Mask) Write(w io.Writer) error {
	writer := csv.NewWriter(w)
	for _, layer := range m.order {
		record := []string{layer}
		channels := m.channels[layer]
		if channels == nil {
			record = append(record, allChannels)
		} else {
			for _, chn := range channels {
				record = append(record, strconv.Itoa(chn))
			}
		}
		if err := writer.Write(record); err != nil {
			return err
		}
	}
	writer.Flush()
	return writer.Error()
}
