package refresh

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shopmetrics/ybscontrol/internal/domain/models"
	"github.com/shopmetrics/ybscontrol/internal/timeutil"
	"github.com/shopmetrics/ybscontrol/pkg/clients/ybs"
)

const ordersPage = `
<table><tbody id="table">
<tr>
<td><p>YBS 1001</p></td>
<td></td>
<td>Running</td>
<td>
<ul class="workplaces">
<li><p><span class="circle"></span>Print Files YBS</p><p class="np">01/02/24 08:00</p></li>
<li><p><span class="circle"></span>Laminate</p><p class="np">01/02/24 12:00</p></li>
</ul>
</td>
</tr>
</tbody></table>
`

const queuePage = `<table><tbody><tr><td>1001</td></tr></tbody></table>`

type fakeClient struct {
	pages    ybs.Pages
	loginErr error
}

func (f *fakeClient) Login(context.Context) error { return f.loginErr }

func (f *fakeClient) FetchPages(context.Context) (ybs.Pages, error) { return f.pages, nil }

type fakeRepo struct {
	saved map[string][]models.LeadTimeEntry
}

func (f *fakeRepo) SaveOrder(_ context.Context, order models.Order, leadTimes []models.LeadTimeEntry) error {
	if f.saved == nil {
		f.saved = make(map[string][]models.LeadTimeEntry)
	}
	f.saved[order.Number] = leadTimes
	return nil
}

func (f *fakeRepo) RecordPrintFileStart(context.Context, string, time.Time) error { return nil }

func (f *fakeRepo) LoadSteps(context.Context, string) ([]models.Step, error) { return nil, nil }

func (f *fakeRepo) LoadLeadTimes(context.Context, string, *time.Time, *time.Time) ([]models.LeadTimeEntry, error) {
	return nil, nil
}

func (f *fakeRepo) LoadJobsByDateRange(context.Context, time.Time, time.Time) ([]models.JobRangeRow, error) {
	return nil, nil
}

func TestRunPersistsParsedOrdersWithLeadTimes(t *testing.T) {
	client := &fakeClient{pages: ybs.Pages{OrdersHTML: ordersPage, QueueHTML: queuePage}}
	repo := &fakeRepo{}
	svc := NewService(client, repo, timeutil.NewStore(timeutil.DefaultCalendar()), nil)

	res, err := svc.Run(context.Background())
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if res.Orders != 1 || res.Queued != 1 {
		t.Fatalf("result = %+v, want 1 order and 1 queued", res)
	}

	entries := repo.saved["1001"]
	if len(entries) != 1 {
		t.Fatalf("saved entries = %v, want 1", entries)
	}
	if entries[0].Workstation != "Laminate" || entries[0].Hours != 4.0 {
		t.Fatalf("entry = %+v, want Laminate 4h inside the business window", entries[0])
	}
}

func TestRunPropagatesLoginFailure(t *testing.T) {
	client := &fakeClient{loginErr: ybs.ErrLoginFailed}
	svc := NewService(client, &fakeRepo{}, timeutil.NewStore(timeutil.DefaultCalendar()), nil)

	if _, err := svc.Run(context.Background()); !errors.Is(err, ybs.ErrLoginFailed) {
		t.Fatalf("err = %v, want ErrLoginFailed", err)
	}
}
