package measurements

import (
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/pkg/errors"
)

func TestSortByFrameLabelSecondary(t *testing.T) {
	table := Table{
		{Frame: 2, Label: 1, Secondary: 0},
		{Frame: 1, Label: 2, Secondary: 1},
		{Frame: 1, Label: 2, Secondary: 0},
		{Frame: 1, Label: -1, Secondary: 5},
	}
	table.SortByFrameLabelSecondary()
	got := make([][3]int, len(table))
	for i, rec := range table {
		got[i] = [3]int{rec.Frame, rec.Label, rec.Secondary}
	}
	want := [][3]int{{1, -1, 5}, {1, 2, 0}, {1, 2, 1}, {2, 1, 0}}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("unexpected order (-want +got):\n%s", diff)
	}
}

func TestSortByLabelTime(t *testing.T) {
	table := Table{
		{Frame: 3, Label: 1},
		{Frame: 1, Label: 2},
		{Frame: 2, Label: 1},
		{Frame: 0, Label: 2},
	}
	table.SortByLabelTime()
	got := make([][2]int, len(table))
	for i, rec := range table {
		got[i] = [2]int{rec.Label, rec.Frame}
	}
	want := [][2]int{{1, 2}, {1, 3}, {2, 0}, {2, 1}}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("unexpected order (-want +got):\n%s", diff)
	}
}

func TestValidate(t *testing.T) {
	good := Table{{Frame: 0}, {Frame: 0}, {Frame: 3}}
	if err := good.Validate(); err != nil {
		t.Errorf("unexpected error: %v", err)
	}
	bad := Table{{Frame: 0}, {Frame: 2}, {Frame: 1}}
	if err := bad.Validate(); !errors.Is(err, ErrUnsorted) {
		t.Errorf("expected ErrUnsorted, got %v", err)
	}
	badLabel := Table{{Frame: 0, Label: -3}}
	if err := badLabel.Validate(); !errors.Is(err, ErrBadLabel) {
		t.Errorf("expected ErrBadLabel, got %v", err)
	}
}

func TestCounts(t *testing.T) {
	table := Table{
		{Frame: 0, Label: -1},
		{Frame: 0, Label: 0},
		{Frame: 1, Label: 4},
		{Frame: 1, Label: 1},
		{Frame: 5, Label: 1},
	}
	if n := table.NumLabels(); n != 6 {
		t.Errorf("expected 6 label slots, got %d", n)
	}
	if n := table.NumLabeled(); n != 4 {
		t.Errorf("expected 4 labeled records, got %d", n)
	}
	if n := table.Frames(); n != 3 {
		t.Errorf("expected 3 frames, got %d", n)
	}
	if n := (Table{}).NumLabels(); n != 1 {
		t.Errorf("expected 1 label slot for empty table, got %d", n)
	}
}

func TestReadCSV(t *testing.T) {
	data := `frame,label,secondary,x,y
# comment
0, 1, 7, 1.5, 2
0,-1, 8, 3, 4
1, 2, 0, 5, 6
`
	table, err := ReadCSV(strings.NewReader(data), LayoutFeatures, ',')
	if err != nil {
		t.Fatal(err)
	}
	want := Table{
		{Frame: 0, Label: 1, Secondary: 7, Features: []float64{1.5, 2}},
		{Frame: 0, Label: -1, Secondary: 8, Features: []float64{3, 4}},
		{Frame: 1, Label: 2, Secondary: 0, Features: []float64{5, 6}},
	}
	if diff := cmp.Diff(want, table); diff != "" {
		t.Errorf("unexpected table (-want +got):\n%s", diff)
	}
}

func TestReadCSVBBox(t *testing.T) {
	table, err := ReadCSV(strings.NewReader("3;0;0;10;20;4;6\n"), LayoutBBox, ';')
	if err != nil {
		t.Fatal(err)
	}
	if len(table) != 1 {
		t.Fatalf("expected 1 record, got %d", len(table))
	}
	if diff := cmp.Diff([]float64{12, 23, 4, 6}, table[0].Features); diff != "" {
		t.Errorf("unexpected features (-want +got):\n%s", diff)
	}
}

func TestReadCSVErrors(t *testing.T) {
	cases := map[string]string{
		"ragged":    "0,1,0,1,2\n1,1,0,1\n",
		"bad label": "0,-2,0,1,2\n",
		"bad float": "0,1,0,x,2\n",
		"short":     "0,1\n",
	}
	for name, data := range cases {
		if _, err := ReadCSV(strings.NewReader(data), LayoutFeatures, ','); err == nil {
			t.Errorf("%s: expected error", name)
		}
	}
	if _, err := ReadCSV(strings.NewReader("0,1,0,1,2\n"), LayoutBBox, ','); err == nil {
		t.Errorf("bbox with two columns: expected error")
	}
}

func TestParseLayout(t *testing.T) {
	if l, err := ParseLayout("BBox"); err != nil || l != LayoutBBox {
		t.Errorf("expected bbox layout, got %s (%v)", l, err)
	}
	if l, err := ParseLayout(""); err != nil || l != LayoutFeatures {
		t.Errorf("expected features layout, got %s (%v)", l, err)
	}
	if _, err := ParseLayout("polygon"); err == nil {
		t.Errorf("expected error for unknown layout")
	}
}
