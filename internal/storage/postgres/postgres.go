package postgres

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"bid_letter/internal/models/bids"

	"github.com/google/uuid"
	_ "github.com/lib/pq"
)

var (
	ErrNotFound   = errors.New("letter not found")
	ErrBadRequest = errors.New("bad request")
)

type Storage struct {
	db *sql.DB
}

func New(storagePath string) (*Storage, error) {
	const op = "storage.postgres.New"

	db, err := sql.Open("postgres", storagePath)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	s := &Storage{db: db}
	if err := s.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return s, nil
}

func (s *Storage) migrate() error {
	stmt, err := s.db.Prepare(`
	CREATE TABLE IF NOT EXISTS bidLetter (
		id UUID PRIMARY KEY,
		clientName TEXT NOT NULL,
		projectName TEXT NOT NULL,
		request JSONB NOT NULL,
		letter JSONB NOT NULL,
		createdAt TIMESTAMP DEFAULT CURRENT_TIMESTAMP
	);
	`)
	if err != nil {
		return err
	}
	defer stmt.Close()

	_, err = stmt.Exec()
	return err
}

func (s *Storage) Close() error {
	return s.db.Close()
}

func (s *Storage) SaveLetter(req bids.BidRequest, letter bids.BidLetterResult) (bids.LetterRecord, error) {
	const op = "storage.postgres.SaveLetter"

	record := bids.LetterRecord{
		Id:          uuid.New().String(),
		ClientName:  req.ClientName,
		ProjectName: req.ProjectName,
		Request:     req,
		Letter:      letter,
	}

	reqJSON, err := json.Marshal(req)
	if err != nil {
		return bids.LetterRecord{}, fmt.Errorf("%s: %w", op, err)
	}
	letterJSON, err := json.Marshal(letter)
	if err != nil {
		return bids.LetterRecord{}, fmt.Errorf("%s: %w", op, err)
	}

	stmt, err := s.db.Prepare(`
	INSERT INTO bidLetter(id, clientName, projectName, request, letter)
	VALUES ($1, $2, $3, $4, $5)
	RETURNING createdAt
	`)
	if err != nil {
		return bids.LetterRecord{}, fmt.Errorf("%s: %w", op, err)
	}
	defer stmt.Close()

	err = stmt.QueryRow(record.Id, record.ClientName, record.ProjectName, reqJSON, letterJSON).Scan(&record.CreatedAt)
	if err != nil {
		return bids.LetterRecord{}, fmt.Errorf("%s: %w", op, err)
	}

	return record, nil
}

func (s *Storage) ReadLetter(letterId string) (bids.LetterRecord, error) {
	const op = "storage.postgres.ReadLetter"

	if _, err := uuid.Parse(letterId); err != nil {
		return bids.LetterRecord{}, fmt.Errorf("%s: %w", op, ErrBadRequest)
	}

	stmt, err := s.db.Prepare(`
	SELECT id, clientName, projectName, request, letter, createdAt
	FROM bidLetter
	WHERE id=$1
	`)
	if err != nil {
		return bids.LetterRecord{}, fmt.Errorf("%s: %w", op, err)
	}
	defer stmt.Close()

	record, err := scanRecord(stmt.QueryRow(letterId))
	if errors.Is(err, sql.ErrNoRows) {
		return bids.LetterRecord{}, fmt.Errorf("%s: %w", op, ErrNotFound)
	}
	if err != nil {
		return bids.LetterRecord{}, fmt.Errorf("%s: %w", op, err)
	}

	return record, nil
}

func (s *Storage) ReadLetters(limit, offset int) ([]bids.LetterRecord, error) {
	const op = "storage.postgres.ReadLetters"
	result := make([]bids.LetterRecord, 0)

	if limit < 0 || offset < 0 {
		return nil, fmt.Errorf("%s: %w", op, ErrBadRequest)
	}

	stmt, err := s.db.Prepare(`
	SELECT id, clientName, projectName, request, letter, createdAt
	FROM bidLetter
	ORDER BY createdAt DESC
	LIMIT $1
	OFFSET $2
	`)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer stmt.Close()

	rows, err := stmt.Query(limit, offset)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer rows.Close()

	for rows.Next() {
		record, err := scanRecord(rows)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}

		result = append(result, record)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return result, nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanRecord(row scanner) (bids.LetterRecord, error) {
	var record bids.LetterRecord
	var reqJSON, letterJSON []byte

	err := row.Scan(&record.Id, &record.ClientName, &record.ProjectName, &reqJSON, &letterJSON, &record.CreatedAt)
	if err != nil {
		return bids.LetterRecord{}, err
	}

	if err := json.Unmarshal(reqJSON, &record.Request); err != nil {
		return bids.LetterRecord{}, err
	}
	if err := json.Unmarshal(letterJSON, &record.Letter); err != nil {
		return bids.LetterRecord{}, err
	}

	return record, nil
}
