package parser

import (
	"fmt"
	"testing"
	"time"
)

const sampleOrdersHTML = `
<table><tbody id="table">
<tr data-id="1">
<td class="move"><p>YBS 1001</p></td>
<td></td>
<td></td>
<td>
<ul class="workplaces">
<li><p><span class="circle green-step">0</span>Print Files YBS</p><p class="np">07/22/25 10:00</p></li>
<li><p><span class="circle green-step">0</span>Indigo</p><p class="np">07/23/25 15:00</p></li>
<li class="active_ws"><p><span class="circle"></span>Laminate</p><p class="np">&nbsp;</p></li>
</ul>
</td>
</tr>
</tbody></table>
`

func singleOrderHTML(jobText string) string {
	return fmt.Sprintf(`
<table><tbody id="table">
<tr data-id="1">
<td class="move"><p>%s</p></td>
<td></td>
<td></td>
<td>
<ul class="workplaces">
<li><p><span class="circle"></span>Step1</p><p class="np">07/22/25 10:00</p></li>
<li class="active_ws"><p><span class="circle"></span>Step2</p><p class="np">&nbsp;</p></li>
</ul>
</td>
</tr>
</tbody></table>
`, jobText)
}

func TestParseOrdersSampleRow(t *testing.T) {
	orders, err := ParseOrders(sampleOrdersHTML)
	if err != nil {
		t.Fatalf("ParseOrders: %v", err)
	}
	if len(orders) != 1 {
		t.Fatalf("got %d orders, want 1", len(orders))
	}

	order := orders[0]
	if order.Number != "1001" {
		t.Fatalf("number = %q, want 1001", order.Number)
	}
	if len(order.Steps) != 3 {
		t.Fatalf("got %d steps, want 3", len(order.Steps))
	}
	if order.Steps[0].Name != "Print Files YBS" {
		t.Fatalf("step[0] name = %q, want Print Files YBS", order.Steps[0].Name)
	}
	wantTS := time.Date(2025, 7, 22, 10, 0, 0, 0, time.UTC)
	if order.Steps[0].Timestamp == nil || !order.Steps[0].Timestamp.Equal(wantTS) {
		t.Fatalf("step[0] timestamp = %v, want %v", order.Steps[0].Timestamp, wantTS)
	}
	if order.Steps[2].Name != "Laminate" || order.Steps[2].Timestamp != nil {
		t.Fatalf("step[2] = %+v, want Laminate with nil timestamp for the nbsp cell", order.Steps[2])
	}
}

func TestParseOrdersFullRow(t *testing.T) {
	html := `
<table><tbody id="table">
<tr>
<td>ACME Corp<br>Order #12345<ul class="workplaces">
<li><p>1Cut</p><p class="np">01/01/24 10:00</p></li>
</ul></td>
<td></td>
<td>Running</td>
<td></td>
<td><input value="High"/></td>
</tr>
</tbody></table>
`
	orders, err := ParseOrders(html)
	if err != nil {
		t.Fatalf("ParseOrders: %v", err)
	}
	if len(orders) != 1 {
		t.Fatalf("got %d orders, want 1", len(orders))
	}

	order := orders[0]
	if order.Number != "12345" {
		t.Fatalf("number = %q, want 12345", order.Number)
	}
	if order.Company != "ACME Corp" {
		t.Fatalf("company = %q, want ACME Corp", order.Company)
	}
	if order.Status != "Running" {
		t.Fatalf("status = %q, want Running", order.Status)
	}
	if order.Priority != "High" {
		t.Fatalf("priority = %q, want High", order.Priority)
	}
	if len(order.Steps) != 1 || order.Steps[0].Name != "Cut" {
		t.Fatalf("steps = %+v, want single Cut step", order.Steps)
	}
}

func TestParseOrdersJobNumberEdgeCases(t *testing.T) {
	cases := []struct {
		jobText string
		want    string
	}{
		{"YBS 1002.", "1002"},
		{"Order 1003 extra", "1003"},
	}
	for _, tc := range cases {
		orders, err := ParseOrders(singleOrderHTML(tc.jobText))
		if err != nil {
			t.Fatalf("ParseOrders(%q): %v", tc.jobText, err)
		}
		if len(orders) != 1 || orders[0].Number != tc.want {
			t.Fatalf("ParseOrders(%q) = %+v, want number %q", tc.jobText, orders, tc.want)
		}
	}
}

func TestParseOrdersSkipsRowsWithoutJobNumber(t *testing.T) {
	orders, err := ParseOrders(singleOrderHTML("No digits here"))
	if err != nil {
		t.Fatalf("ParseOrders: %v", err)
	}
	if len(orders) != 0 {
		t.Fatalf("got %+v, want no orders for a digit-free identity cell", orders)
	}
}

func TestParseQueue(t *testing.T) {
	html := `<table><tbody><tr><td>Order 100</td></tr><tr><td>Job-200</td></tr></tbody></table>`
	queue, err := ParseQueue(html)
	if err != nil {
		t.Fatalf("ParseQueue: %v", err)
	}
	if len(queue) != 2 {
		t.Fatalf("got %d entries, want 2", len(queue))
	}
	for _, want := range []string{"100", "Job-200"} {
		if _, ok := queue[want]; !ok {
			t.Fatalf("queue %v missing %q", queue, want)
		}
	}
}
