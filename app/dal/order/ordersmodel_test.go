package order

import (
	"context"
	"errors"
	"regexp"
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/zeromicro/go-zero/core/stores/sqlx"
)

func newMockConn(t *testing.T) (sqlx.SqlConn, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock: %v", err)
	}
	t.Cleanup(func() {
		if err := mock.ExpectationsWereMet(); err != nil {
			t.Errorf("unmet sql expectations: %v", err)
		}
		_ = db.Close()
	})
	return sqlx.NewSqlConnFromDB(db), mock
}

const (
	transitUpdate = "update `orders` set `status` = ?, `payment_intent_id` = coalesce(nullif(?, ''), `payment_intent_id`) where `id` = ? and `status` in (?,?)"
	outboxInsert  = "insert into `order_compensations` (`order_id`,`product_id`,`action`,`status`,`attempts`,`last_error`) values (?, ?, ?, ?, ?, ?)"
	statusLookup  = "select `status` from `orders` where `id` = ? limit 1"
)

var cancelTransition = Transition{
	OrderId:      "o1",
	ProductId:    "p1",
	From:         []string{StatusPending, StatusPaid},
	To:           StatusCancelled,
	Compensation: ActionRelease,
}

func TestSqlTransitWritesOrderAndOutboxTogether(t *testing.T) {
	conn, mock := newMockConn(t)
	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta(transitUpdate)).
		WithArgs(StatusCancelled, "", "o1", StatusPending, StatusPaid).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(regexp.QuoteMeta(outboxInsert)).
		WithArgs("o1", "p1", ActionRelease, CompensationPending, 0, "").
		WillReturnResult(sqlmock.NewResult(7, 1))
	mock.ExpectCommit()

	id, err := NewOrdersModel(conn).Transit(context.Background(), cancelTransition)
	if err != nil || id != 7 {
		t.Fatalf("transit: id=%d err=%v", id, err)
	}
}

func TestSqlTransitRollsBackWhenOutboxInsertFails(t *testing.T) {
	conn, mock := newMockConn(t)
	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta(transitUpdate)).
		WithArgs(StatusCancelled, "", "o1", StatusPending, StatusPaid).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(regexp.QuoteMeta(outboxInsert)).
		WillReturnError(errors.New("lock wait timeout exceeded"))
	mock.ExpectRollback()

	id, err := NewOrdersModel(conn).Transit(context.Background(), cancelTransition)
	if err == nil || id != 0 {
		t.Fatalf("expected failed transit, got id=%d err=%v", id, err)
	}
}

func TestSqlTransitClassifiesMiss(t *testing.T) {
	cases := []struct {
		name string
		rows *sqlmock.Rows
		want error
	}{
		{"stale status", sqlmock.NewRows([]string{"status"}).AddRow(StatusDelivered), ErrStaleStatus},
		{"missing order", sqlmock.NewRows([]string{"status"}), ErrNotFound},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			conn, mock := newMockConn(t)
			mock.ExpectBegin()
			mock.ExpectExec(regexp.QuoteMeta(transitUpdate)).
				WithArgs(StatusCancelled, "", "o1", StatusPending, StatusPaid).
				WillReturnResult(sqlmock.NewResult(0, 0))
			mock.ExpectQuery(regexp.QuoteMeta(statusLookup)).WithArgs("o1").WillReturnRows(c.rows)
			mock.ExpectRollback()

			_, err := NewOrdersModel(conn).Transit(context.Background(), cancelTransition)
			if !errors.Is(err, c.want) {
				t.Fatalf("expected %v, got %v", c.want, err)
			}
		})
	}
}

func TestSqlTransitWithoutCompensation(t *testing.T) {
	conn, mock := newMockConn(t)
	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta("update `orders` set `status` = ?, `payment_intent_id` = coalesce(nullif(?, ''), `payment_intent_id`) where `id` = ? and `status` in (?)")).
		WithArgs(StatusPaid, "pi_1", "o1", StatusPending).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	id, err := NewOrdersModel(conn).Transit(context.Background(), Transition{
		OrderId: "o1", ProductId: "p1", From: []string{StatusPending}, To: StatusPaid, PaymentIntentId: "pi_1",
	})
	if err != nil || id != 0 {
		t.Fatalf("transit: id=%d err=%v", id, err)
	}
}

func TestSqlEnqueueAndRecordFailure(t *testing.T) {
	conn, mock := newMockConn(t)
	mock.ExpectExec(regexp.QuoteMeta(outboxInsert)).
		WithArgs("o2", "p1", ActionRelease, CompensationPending, 0, "").
		WillReturnResult(sqlmock.NewResult(9, 1))
	reason := strings.Repeat("é", 200)
	mock.ExpectExec(regexp.QuoteMeta("update `order_compensations` set `attempts` = `attempts` + 1, `last_error` = ? where `id` = ? and `status` = ?")).
		WithArgs(truncate(reason, 255), 9, CompensationPending).
		WillReturnResult(sqlmock.NewResult(0, 1))

	m := NewCompensationsModel(conn)
	id, err := m.Enqueue(context.Background(), &Compensations{OrderId: "o2", ProductId: "p1", Action: ActionRelease})
	if err != nil || id != 9 {
		t.Fatalf("enqueue: id=%d err=%v", id, err)
	}
	if err := m.RecordFailure(context.Background(), id, reason); err != nil {
		t.Fatalf("record failure: %v", err)
	}
}

func TestTruncateKeepsRunesWhole(t *testing.T) {
	got := truncate(strings.Repeat("é", 200), 255)
	if len(got) > 255 || !utf8.ValidString(got) {
		t.Fatalf("truncate produced %d bytes, valid=%v", len(got), utf8.ValidString(got))
	}
	if len(got) != 254 {
		t.Fatalf("expected 127 whole runes, got %d bytes", len(got))
	}
	if truncate("short", 255) != "short" {
		t.Fatalf("short strings must pass through")
	}
}
