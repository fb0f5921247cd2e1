package ingest

import (
	"errors"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/yungbote/placesync/internal/data/repos"
	"github.com/yungbote/placesync/internal/domain"
	"github.com/yungbote/placesync/internal/platform/dbctx"
	"github.com/yungbote/placesync/internal/platform/logger"
)

const dateLayout = "2006-01-02"

type FailureReason string

const (
	// ReasonUnknownPlace: the row's place of birth resolved to nothing.
	ReasonUnknownPlace FailureReason = "unknown_place"
	// ReasonBadRecord: the row itself could not be turned into a person.
	ReasonBadRecord FailureReason = "bad_record"
	// ReasonStoreReject: the store refused the insert.
	ReasonStoreReject FailureReason = "store_reject"
)

// RowFailure records one skipped person row. Failures are data, not control
// flow; the loader never aborts on them.
type RowFailure struct {
	Line   int
	Name   string
	Reason FailureReason
	Err    error
}

type Result struct {
	Inserted int
	Failures []RowFailure
}

func (r Result) Failed() int { return len(r.Failures) }

// PersonLoader inserts person rows, resolving place-of-birth text through the
// lookup built by the place phase.
type PersonLoader struct {
	repo     repos.PersonRepo
	encoding string
	log      *logger.Logger
}

func NewPersonLoader(repo repos.PersonRepo, encoding string, baseLog *logger.Logger) *PersonLoader {
	return &PersonLoader{
		repo:     repo,
		encoding: encoding,
		log:      baseLog.With("component", "PersonLoader"),
	}
}

// Load processes every row, tolerating per-row failures. Only a missing or
// unreadable source file is fatal.
func (l *PersonLoader) Load(dbc dbctx.Context, sourcePath string, lookup map[string]int64) (Result, error) {
	records, err := ReadPeople(sourcePath, l.encoding)
	if err != nil {
		return Result{}, err
	}
	l.log.Info("loading people", "rows", len(records))

	var res Result
	for _, rec := range records {
		if failure := l.loadOne(dbc, rec, lookup); failure != nil {
			res.Failures = append(res.Failures, *failure)
			continue
		}
		res.Inserted++
	}

	l.log.Info("loaded people", "inserted", res.Inserted, "failed", res.Failed())
	return res, nil
}

func (l *PersonLoader) loadOne(dbc dbctx.Context, rec PersonRecord, lookup map[string]int64) *RowFailure {
	name := rec.GivenName + " " + rec.FamilyName

	// presence check happens before place resolution: a row without names is
	// a bad record even when its place of birth would have resolved
	if rec.GivenName == "" || rec.FamilyName == "" {
		l.log.Warn("person row missing required name fields",
			"line", rec.Line,
			"given_name", rec.GivenName,
			"family_name", rec.FamilyName)
		return &RowFailure{Line: rec.Line, Name: name, Reason: ReasonBadRecord}
	}

	placeID, ok := lookup[CityKey(rec.PlaceOfBirth)]
	if !ok {
		l.log.Warn("could not resolve place of birth",
			"line", rec.Line,
			"name", name,
			"place_of_birth", rec.PlaceOfBirth)
		return &RowFailure{Line: rec.Line, Name: name, Reason: ReasonUnknownPlace}
	}

	dob, err := time.Parse(dateLayout, rec.DateOfBirth)
	if err != nil {
		l.log.Warn("bad date of birth",
			"line", rec.Line,
			"name", name,
			"date_of_birth", rec.DateOfBirth,
			"error", err)
		return &RowFailure{Line: rec.Line, Name: name, Reason: ReasonBadRecord, Err: err}
	}

	row := &domain.Person{
		FirstName:      rec.GivenName,
		LastName:       rec.FamilyName,
		DateOfBirth:    datatypes.Date(dob),
		PlaceOfBirthID: placeID,
	}
	if err := l.createRow(dbc, row); err != nil {
		l.log.Warn("store rejected person row",
			"line", rec.Line,
			"name", name,
			"pg_code", pgCode(err),
			"error", err)
		return &RowFailure{Line: rec.Line, Name: name, Reason: ReasonStoreReject, Err: err}
	}
	return nil
}

// createRow inserts under a per-row savepoint when a transaction is open.
// Postgres aborts the whole transaction after any failed statement, so without
// the savepoint one rejected row would poison every row after it.
func (l *PersonLoader) createRow(dbc dbctx.Context, row *domain.Person) error {
	if dbc.Tx == nil {
		return l.repo.Create(dbc, row)
	}
	return dbc.Tx.Transaction(func(tx *gorm.DB) error {
		return l.repo.Create(dbctx.Context{Ctx: dbc.Ctx, Tx: tx}, row)
	})
}

// pgCode extracts the Postgres error code when the store gave one; empty
// otherwise.
func pgCode(err error) string {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code
	}
	return ""
}
