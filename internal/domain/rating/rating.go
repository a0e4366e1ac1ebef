// Package rating 评分聚合（读时计算）
//
// 图书的平均分和评论数从不存储，每次读取时由该书的全部书评实时计算：
//   - 没有书评：平均分0、评论数0（不会出现NaN）
//   - 否则：平均分 = 评分总和 / 评论数，展示时保留一位小数
//
// 单本聚合（Aggregate）和批量聚合（AggregateMany）走同一次Source调用和同一套整数累加，
// 所以对同一组图书两者结果完全一致。
package rating

import (
	"context"
	"math"
	"time"

	"go.opentelemetry.io/otel/attribute"

	apperrors "github.com/xiebiao/bookreview/pkg/errors"
	"github.com/xiebiao/bookreview/pkg/metrics"
	"github.com/xiebiao/bookreview/pkg/tracing"
)

const tracerName = "bookreview/rating"

// Summary 评分汇总（评分总和 + 评论数）
// 使用整数累加，平均值在需要时才计算，避免浮点误差在批量/单本之间产生差异
type Summary struct {
	Sum   int64
	Count int64
}

// Add 累加一条评分
func (s Summary) Add(rating int) Summary {
	return Summary{Sum: s.Sum + int64(rating), Count: s.Count + 1}
}

// Merge 合并两个汇总
func (s Summary) Merge(o Summary) Summary {
	return Summary{Sum: s.Sum + o.Sum, Count: s.Count + o.Count}
}

// Average 未取整的平均分（无评论时为0）
func (s Summary) Average() float64 {
	if s.Count <= 0 {
		return 0
	}
	return float64(s.Sum) / float64(s.Count)
}

// Rounded 展示用平均分（一位小数）
func (s Summary) Rounded() float64 {
	return RoundRating(s.Average())
}

// RoundRating 保留一位小数（四舍五入，远离零）：4.333 → 4.3，4.25 → 4.3
func RoundRating(x float64) float64 {
	if math.IsNaN(x) || math.IsInf(x, 0) {
		return 0
	}
	return math.Round(x*10) / 10
}

// Source 评分数据来源（由书评仓储实现）
// 一次调用返回所有请求图书的汇总；没有书评的图书可以不出现在结果中
type Source interface {
	RatingTallies(ctx context.Context, bookIDs []string) (map[string]Summary, error)
}

// Aggregator 评分聚合器
type Aggregator struct {
	source Source
}

// NewAggregator 创建评分聚合器
func NewAggregator(source Source) *Aggregator {
	return &Aggregator{source: source}
}

// Aggregate 计算单本图书的评分汇总
// 不校验图书是否存在：不存在的图书和没有书评的图书都返回(0, 0)
func (a *Aggregator) Aggregate(ctx context.Context, bookID string) (Summary, error) {
	result, err := a.aggregate(ctx, "single", []string{bookID})
	if err != nil {
		return Summary{}, err
	}
	return result[bookID], nil
}

// AggregateMany 批量计算评分汇总
// 返回的map包含每个请求的ID（没有书评的为零值Summary）
func (a *Aggregator) AggregateMany(ctx context.Context, bookIDs []string) (map[string]Summary, error) {
	return a.aggregate(ctx, "batch", bookIDs)
}

func (a *Aggregator) aggregate(ctx context.Context, mode string, bookIDs []string) (map[string]Summary, error) {
	// 1. 去重（保持请求顺序），空列表不访问存储
	ids := dedupe(bookIDs)
	result := make(map[string]Summary, len(ids))
	if len(ids) == 0 {
		return result, nil
	}

	ctx, span := tracing.StartSpan(ctx, tracerName, "rating.Aggregate")
	span.SetAttributes(
		attribute.String("rating.mode", mode),
		attribute.Int("rating.book_count", len(ids)),
	)
	defer span.End()

	start := time.Now()
	defer func() {
		metrics.ObserveHistogramVec(metrics.RatingAggregationDuration, map[string]string{"mode": mode}, time.Since(start).Seconds())
		if mode == "batch" {
			metrics.ObserveHistogram(metrics.RatingAggregationBatchSize, float64(len(ids)))
		}
	}()

	// 2. 一次读取所有汇总
	tallies, err := a.source.RatingTallies(ctx, ids)
	if err != nil {
		tracing.RecordError(span, err)
		if apperrors.IsAppError(err) {
			return nil, err
		}
		return nil, apperrors.WrapStore(err, "读取评分失败")
	}

	// 3. 每个请求的ID都有结果，缺失的视为没有书评
	for _, id := range ids {
		result[id] = tallies[id]
	}
	return result, nil
}

func dedupe(ids []string) []string {
	seen := make(map[string]struct{}, len(ids))
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}
