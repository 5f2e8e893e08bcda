package output

import (
	"encoding/json"
	"io"
	"os"

	"github.com/CodMac/go-treesitter-impl-merger/model"
)

type JSONLWriter struct {
	encoder *json.Encoder
}

func NewJSONLWriter(w io.Writer) *JSONLWriter {
	return &JSONLWriter{
		encoder: json.NewEncoder(w),
	}
}

func (w *JSONLWriter) Write(v interface{}) error {
	return w.encoder.Encode(v)
}

// ExportReports 每个处理过的文件写出一行 JSON
func ExportReports(path string, batch *model.BatchReport) (int, error) {
	f, err := os.Create(path)
	if err != nil {
		return 0, err
	}
	defer f.Close()

	return WriteReports(f, batch)
}

// WriteReports 将批处理结果按文件逐行写入 w
func WriteReports(w io.Writer, batch *model.BatchReport) (int, error) {
	writer := NewJSONLWriter(w)
	count := 0
	for _, fr := range batch.Files {
		if err := writer.Write(fr); err != nil {
			return count, err
		}
		count++
	}
	return count, nil
}
