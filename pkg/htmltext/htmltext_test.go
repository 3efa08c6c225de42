package htmltext

import "testing"

const page = `<html><head><script>var x=1;</script><style>.a{}</style></head>
<body>
<h1>Gold board</h1>
<div>SJC</div><div>Buy</div><div>87.500.000</div>
<table>
<tr><th>Type</th><th>Buy</th><th>Sell</th></tr>
<tr><td>SJC <b>HCM</b></td><td>87,500</td><td>88,500</td></tr>
</table>
</body></html>`

func TestLines(t *testing.T) {
	lines := Lines(page)
	if len(lines) == 0 {
		t.Fatalf("no lines extracted")
	}
	want := map[string]bool{"Gold board": false, "SJC": false, "87.500.000": false}
	for _, l := range lines {
		if _, ok := want[l]; ok {
			want[l] = true
		}
		if l == "var x=1;" || l == ".a{}" {
			t.Fatalf("script/style leaked into text: %q", l)
		}
	}
	for k, seen := range want {
		if !seen {
			t.Fatalf("missing line %q in %v", k, lines)
		}
	}
}

func TestTables(t *testing.T) {
	tables := Tables(page)
	if len(tables) != 1 {
		t.Fatalf("expected one table, got %d", len(tables))
	}
	rows := tables[0]
	if len(rows) != 2 {
		t.Fatalf("expected two rows, got %d", len(rows))
	}
	if rows[1][0] != "SJC HCM" || rows[1][1] != "87,500" || rows[1][2] != "88,500" {
		t.Fatalf("unexpected row: %v", rows[1])
	}
}

func TestLinesBrokenMarkup(t *testing.T) {
	lines := Lines("<div>25,500<td></span></div>")
	found := false
	for _, l := range lines {
		if l == "25,500" {
			found = true
		}
	}
	if !found {
		t.Fatalf("broken markup should still yield text, got %v", lines)
	}
}
