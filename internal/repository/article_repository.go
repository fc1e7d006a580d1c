package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"news-pulse/internal/domain"

	"github.com/jackc/pgx/v5"
	"go.opentelemetry.io/otel/trace"
)

type ArticleRepository struct {
	pool   PgxPool
	tracer trace.Tracer
}

func NewArticleRepository(pool PgxPool, tracer trace.Tracer) *ArticleRepository {
	return &ArticleRepository{pool: pool, tracer: tracer}
}

// InsertArticles stores new articles and returns only the ones that were not
// already present for their day, with IDs assigned.
func (r *ArticleRepository) InsertArticles(ctx context.Context, articles []domain.Article) ([]domain.Article, error) {
	if len(articles) == 0 {
		return nil, nil
	}
	_, span := r.tracer.Start(ctx, "article-repo.insert-articles")
	defer span.End()

	batch := &pgx.Batch{}
	for _, a := range articles {
		batch.Queue(`
INSERT INTO articles (source, headline, headline_key, summary, link, published_at, published_day)
VALUES ($1, $2, $3, $4, $5, $6, $7)
ON CONFLICT (published_day, headline_key) DO NOTHING
RETURNING id`,
			a.Source, a.Headline, domain.HeadlineKey(a.Headline), a.Summary, a.Link, a.PublishedAt.UTC(), dayStart(a.PublishedAt),
		)
	}

	br := r.pool.SendBatch(ctx, batch)
	defer br.Close()

	inserted := make([]domain.Article, 0, len(articles))
	for _, a := range articles {
		var id int64
		err := br.QueryRow().Scan(&id)
		if errors.Is(err, pgx.ErrNoRows) {
			continue
		}
		if err != nil {
			return nil, fmt.Errorf("insert article %q: %w", a.Headline, err)
		}
		a.ID = id
		inserted = append(inserted, a)
	}
	return inserted, nil
}

// SaveScores upserts the ensemble verdict for already stored articles.
func (r *ArticleRepository) SaveScores(ctx context.Context, scored []domain.ScoredArticle, policy string) error {
	if len(scored) == 0 {
		return nil
	}
	_, span := r.tracer.Start(ctx, "article-repo.save-scores")
	defer span.End()

	batch := &pgx.Batch{}
	for _, s := range scored {
		if s.ID <= 0 {
			return fmt.Errorf("cannot score unsaved article %q", s.Headline)
		}
		components, err := json.Marshal(s.ComponentScores)
		if err != nil {
			return fmt.Errorf("encode component scores: %w", err)
		}
		batch.Queue(`
INSERT INTO article_scores (article_id, sentiment, confidence, raw_score, component_scores, policy, scored_at)
VALUES ($1, $2, $3, $4, $5, $6, $7)
ON CONFLICT (article_id) DO UPDATE SET
    sentiment = EXCLUDED.sentiment,
    confidence = EXCLUDED.confidence,
    raw_score = EXCLUDED.raw_score,
    component_scores = EXCLUDED.component_scores,
    policy = EXCLUDED.policy,
    scored_at = EXCLUDED.scored_at`,
			s.ID, s.Sentiment, s.Confidence, s.RawScore, string(components), policy, s.ScoredAt.UTC(),
		)
	}

	br := r.pool.SendBatch(ctx, batch)
	defer br.Close()
	for range scored {
		if _, err := br.Exec(); err != nil {
			return err
		}
	}
	return nil
}

// ListArticlesBetween returns stored articles published in [from, to],
// oldest first, whether scored or not.
func (r *ArticleRepository) ListArticlesBetween(ctx context.Context, from, to time.Time) ([]domain.Article, error) {
	_, span := r.tracer.Start(ctx, "article-repo.list-articles-between")
	defer span.End()

	rows, err := r.pool.Query(ctx, `
SELECT id, source, headline, summary, link, published_at
FROM articles
WHERE published_at >= $1 AND published_at <= $2
ORDER BY published_at ASC, id ASC`, from.UTC(), to.UTC())
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []domain.Article
	for rows.Next() {
		var a domain.Article
		if err := rows.Scan(&a.ID, &a.Source, &a.Headline, &a.Summary, &a.Link, &a.PublishedAt); err != nil {
			return nil, err
		}
		a.PublishedAt = a.PublishedAt.UTC()
		out = append(out, a)
	}
	return out, rows.Err()
}

// ListScoredBetween returns the scored series for [from, to], oldest first.
// Persisted labels and confidences are normalised on the way out.
func (r *ArticleRepository) ListScoredBetween(ctx context.Context, from, to time.Time) ([]domain.ScoredArticle, error) {
	_, span := r.tracer.Start(ctx, "article-repo.list-scored-between")
	defer span.End()

	rows, err := r.pool.Query(ctx, `
SELECT a.id, a.source, a.headline, a.summary, a.link, a.published_at,
       s.sentiment, s.confidence, s.raw_score, s.component_scores, s.scored_at
FROM articles a
JOIN article_scores s ON s.article_id = a.id
WHERE a.published_at >= $1 AND a.published_at <= $2
ORDER BY a.published_at ASC, a.id ASC`, from.UTC(), to.UTC())
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []domain.ScoredArticle
	for rows.Next() {
		item, err := scanScoredArticle(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, item)
	}
	return out, rows.Err()
}

// ListUnscoredBetween returns stored articles published in [from, to] that
// have no score row yet, oldest first.
func (r *ArticleRepository) ListUnscoredBetween(ctx context.Context, from, to time.Time) ([]domain.Article, error) {
	_, span := r.tracer.Start(ctx, "article-repo.list-unscored-between")
	defer span.End()

	rows, err := r.pool.Query(ctx, `
SELECT a.id, a.source, a.headline, a.summary, a.link, a.published_at
FROM articles a
LEFT JOIN article_scores s ON s.article_id = a.id
WHERE s.article_id IS NULL AND a.published_at >= $1 AND a.published_at <= $2
ORDER BY a.published_at ASC, a.id ASC`, from.UTC(), to.UTC())
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []domain.Article
	for rows.Next() {
		var a domain.Article
		if err := rows.Scan(&a.ID, &a.Source, &a.Headline, &a.Summary, &a.Link, &a.PublishedAt); err != nil {
			return nil, err
		}
		a.PublishedAt = a.PublishedAt.UTC()
		out = append(out, a)
	}
	return out, rows.Err()
}

func (r *ArticleRepository) CountUnscored(ctx context.Context, from, to time.Time) (int, error) {
	_, span := r.tracer.Start(ctx, "article-repo.count-unscored")
	defer span.End()

	var n int
	err := r.pool.QueryRow(ctx, `
SELECT COUNT(*)
FROM articles a
LEFT JOIN article_scores s ON s.article_id = a.id
WHERE s.article_id IS NULL AND a.published_at >= $1 AND a.published_at <= $2`, from.UTC(), to.UTC()).Scan(&n)
	return n, err
}

// DeleteOlderThan removes articles (and their scores) published before cutoff.
func (r *ArticleRepository) DeleteOlderThan(ctx context.Context, cutoff time.Time) (int64, error) {
	_, span := r.tracer.Start(ctx, "article-repo.delete-older-than")
	defer span.End()

	tag, err := r.pool.Exec(ctx, `DELETE FROM articles WHERE published_at < $1`, cutoff.UTC())
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}

func scanScoredArticle(s interface{ Scan(dest ...any) error }) (domain.ScoredArticle, error) {
	var out domain.ScoredArticle
	var sentiment int16
	var components []byte
	if err := s.Scan(
		&out.ID, &out.Source, &out.Headline, &out.Summary, &out.Link, &out.PublishedAt,
		&sentiment, &out.Confidence, &out.RawScore, &components, &out.ScoredAt,
	); err != nil {
		return domain.ScoredArticle{}, err
	}
	out.PublishedAt = out.PublishedAt.UTC()
	out.ScoredAt = out.ScoredAt.UTC()
	out.Sentiment = domain.NormalizeSentiment(int(sentiment))
	out.Confidence = domain.NormalizeConfidence(out.Confidence)
	out.ComponentScores = decodeComponents(components)
	return out, nil
}

func decodeComponents(raw []byte) map[string]float64 {
	if len(raw) == 0 {
		return nil
	}
	var out map[string]float64
	if err := json.Unmarshal(raw, &out); err != nil {
		return nil
	}
	return out
}

func dayStart(t time.Time) time.Time {
	t = t.UTC()
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
