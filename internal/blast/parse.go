package blast

import (
	"bufio"
	"io"
	"strconv"
	"strings"

	"stcall/internal/allele"
	"stcall/internal/errors"
)

// block collects the rows of one query. explicit blocks are opened by a
// "# Query:" comment; implicit ones by a new query id in plain outfmt 6.
type block struct {
	query     string
	line      int
	explicit  bool
	announced int // from "# N hits found"; -1 when absent
	best      *HitRecord
}

// Parse reads search output from r. See ParseNamed.
func Parse(r io.Reader, th Thresholds) ([]QueryResult, error) {
	return ParseNamed(r, "", th)
}

// ParseNamed reads search output from r; source only labels errors.
//
// Each query is decided on its first (best) row; later rows of the same
// block are skipped unparsed, and so is any later block of a query already
// seen (rows of one query split by another in outfmt 6). A block
// announcing zero hits yields NoHit. A malformed row or subject id aborts
// with a FormatError.
func ParseNamed(r io.Reader, source string, th Thresholds) ([]QueryResult, error) {
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64<<10), 4<<20)

	var (
		out []QueryResult
		cur *block
		ln  int
	)
	flush := func() error {
		if cur == nil {
			return nil
		}
		b := cur
		cur = nil
		if b.best == nil {
			if b.announced > 0 {
				return errors.NewFormatError(source, b.line, "query %q announces %d hits but has no rows", b.query, b.announced)
			}
			out = append(out, QueryResult{QueryID: b.query, Status: NoHit})
			return nil
		}
		st := Rejected
		if th.Accept(*b.best) {
			st = Accepted
		}
		out = append(out, QueryResult{QueryID: b.query, Status: st, Hit: b.best})
		return nil
	}

	for sc.Scan() {
		ln++
		line := strings.TrimRight(sc.Text(), "\r")
		if strings.TrimSpace(line) == "" {
			continue
		}

		if strings.HasPrefix(line, "#") {
			body := strings.TrimSpace(strings.TrimPrefix(line, "#"))
			switch {
			case strings.HasPrefix(body, "Query:"):
				if err := flush(); err != nil {
					return nil, err
				}
				f := strings.Fields(strings.TrimPrefix(body, "Query:"))
				if len(f) == 0 {
					return nil, errors.NewFormatError(source, ln, "empty query comment")
				}
				cur = &block{query: f[0], line: ln, explicit: true, announced: -1}
			case strings.HasSuffix(body, "hits found"):
				n, err := strconv.Atoi(strings.TrimSpace(strings.TrimSuffix(body, "hits found")))
				if err != nil {
					return nil, errors.NewFormatError(source, ln, "bad hit count %q", body)
				}
				if cur == nil || !cur.explicit {
					return nil, errors.NewFormatError(source, ln, "hit count outside a query block")
				}
				cur.announced = n
			}
			continue
		}

		fields := strings.Split(line, "\t")
		q := strings.TrimSpace(fields[0])
		switch {
		case cur != nil && cur.explicit:
			if q != cur.query {
				return nil, errors.NewFormatError(source, ln, "row for query %q inside block of %q", q, cur.query)
			}
		case cur == nil || q != cur.query:
			if err := flush(); err != nil {
				return nil, err
			}
			cur = &block{query: q, line: ln, announced: -1}
		}
		if cur.best != nil {
			continue
		}
		h, err := parseRow(fields, source, ln)
		if err != nil {
			return nil, err
		}
		cur.best = &h
	}
	if err := sc.Err(); err != nil {
		return nil, errors.Wrapf(err, "read %s", source)
	}
	if err := flush(); err != nil {
		return nil, err
	}
	out, _ = FirstPerQuery(out)
	return out, nil
}

// parseRow decodes query, subject, pident, length and, when all twelve
// columns are present, the remaining outfmt 6 fields.
func parseRow(f []string, source string, ln int) (HitRecord, error) {
	if len(f) < 4 {
		return HitRecord{}, errors.NewFormatError(source, ln, "want at least 4 columns, got %d", len(f))
	}
	var h HitRecord
	h.QueryID = strings.TrimSpace(f[0])
	h.SubjectID = strings.TrimSpace(f[1])

	a, err := allele.ParseSubjectID(h.SubjectID)
	if err != nil {
		return HitRecord{}, errors.NewFormatError(source, ln, "%v", err)
	}
	h.Allele = a

	num := &numParser{source: source, line: ln}
	h.Identity = num.atof(f[2], "percent identity")
	h.Length = num.atoi(f[3], "alignment length")
	if len(f) >= 12 {
		h.Mismatches = num.atoi(f[4], "mismatches")
		h.GapOpens = num.atoi(f[5], "gap opens")
		h.QStart = num.atoi(f[6], "q. start")
		h.QEnd = num.atoi(f[7], "q. end")
		h.SStart = num.atoi(f[8], "s. start")
		h.SEnd = num.atoi(f[9], "s. end")
		h.EValue = num.atof(f[10], "evalue")
		h.BitScore = num.atof(f[11], "bit score")
	}
	if num.err != nil {
		return HitRecord{}, num.err
	}
	if h.Length < 0 {
		return HitRecord{}, errors.NewFormatError(source, ln, "negative alignment length %d", h.Length)
	}
	if h.Identity < 0 || h.Identity > 100 {
		return HitRecord{}, errors.NewFormatError(source, ln, "percent identity %g out of range", h.Identity)
	}
	return h, nil
}

// numParser keeps the first conversion error so a row decodes in one pass.
type numParser struct {
	source string
	line   int
	err    error
}

func (p *numParser) atoi(s, what string) int {
	if p.err != nil {
		return 0
	}
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		p.err = errors.NewFormatError(p.source, p.line, "bad %s %q", what, s)
	}
	return n
}

func (p *numParser) atof(s, what string) float64 {
	if p.err != nil {
		return 0
	}
	v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		p.err = errors.NewFormatError(p.source, p.line, "bad %s %q", what, s)
	}
	return v
}
