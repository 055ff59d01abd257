package catalog

import (
	"errors"
	"fmt"

	"github.com/zeromicro/go-zero/core/stores/sqlx"
)

var ErrNotFound = sqlx.ErrNotFound

const (
	StatusAvailable = "available"
	StatusReserved  = "reserved"
	StatusSold      = "sold"
)

func ValidStatus(s string) bool {
	return s == StatusAvailable || s == StatusReserved || s == StatusSold
}

// Outcome is the result of a guarded status transition.
type Outcome int

const (
	Applied Outcome = iota + 1
	Conflict
	NotFound
)

func (o Outcome) String() string {
	switch o {
	case Applied:
		return "applied"
	case Conflict:
		return "conflict"
	case NotFound:
		return "not_found"
	default:
		return "unknown"
	}
}

type move struct {
	from, to string
	owner    string
	hold     string
}

func (mv move) statement(table, id string) (string, []any) {
	set, args := "`status` = ?", []any{mv.to}
	switch mv.to {
	case StatusReserved:
		set += ", `hold_id` = ?"
		args = append(args, mv.hold)
	case StatusAvailable:
		set += ", `hold_id` = ''"
	}
	where := "`id` = ? and `status` = ?"
	args = append(args, id, mv.from)
	if mv.owner != "" {
		where += " and `user_id` = ?"
		args = append(args, mv.owner)
	}
	if mv.to != StatusReserved && mv.hold != "" {
		where += " and `hold_id` = ?"
		args = append(args, mv.hold)
	}
	return fmt.Sprintf("update %s set %s where %s", table, set, where), args
}

// matches reports whether the row is in mv.from under the expected owner and hold.
func (mv move) matches(p *Products) bool {
	if p.Status != mv.from || mv.owner != "" && p.UserId != mv.owner {
		return false
	}
	return mv.to == StatusReserved || mv.hold == "" || p.HoldId == mv.hold
}

// classifyMiss explains a conditional update that touched no row.
// A reservation retried under its own hold counts as applied. A release
// counts as applied once the caller's hold is gone from the product, even if
// another hold has replaced it. A finalize counts as applied when the
// product was already sold under the same hold.
func (mv move) classifyMiss(p *Products, err error) (Outcome, error) {
	if errors.Is(err, ErrNotFound) {
		return NotFound, nil
	}
	if err != nil {
		return 0, err
	}
	sameHold := mv.hold == "" || p.HoldId == mv.hold
	switch mv.to {
	case StatusReserved:
		if p.Status == StatusReserved && mv.hold != "" && p.HoldId == mv.hold {
			return Applied, nil
		}
	case StatusAvailable:
		if p.Status == StatusAvailable || p.Status == StatusReserved && !sameHold {
			return Applied, nil
		}
	case StatusSold:
		if p.Status == StatusSold && sameHold {
			return Applied, nil
		}
	}
	return Conflict, nil
}
