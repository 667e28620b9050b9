// internal/writers/jsonl.go
package writers

import (
	"encoding/json"
	"io"

	"stcall/internal/jsonlutil"
	"stcall/internal/matcher"
	"stcall/internal/output"
)

// StartReportJSONLWriter streams each report row as one JSON line (v1).
func StartReportJSONLWriter(out io.Writer, bufSize int) (chan<- matcher.Result, <-chan error) {
	return jsonlutil.Start[matcher.Result](out, bufSize,
		func(enc *json.Encoder, r matcher.Result) error {
			for _, c := range output.ToAPICalls(r) {
				if err := enc.Encode(c); err != nil {
					return err
				}
			}
			return nil
		},
		IsBrokenPipe,
	)
}
