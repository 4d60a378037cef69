package photo

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"

	"github.com/disintegration/imaging"
	"github.com/sirupsen/logrus"
	"golang.org/x/sync/semaphore"
)

// Параметры алгоритма сжатия
const (
	maxDimension = 1200 // максимальная длина большей стороны, px
	startQuality = 80
	qualityFloor = 30
	qualityStep  = 10
)

// Outcome - результат работы конвейера сжатия
type Outcome string

const (
	// OutcomeCompressed - файл уложился в бюджет размера
	OutcomeCompressed Outcome = "compressed"
	// OutcomeDegraded - качество достигло пола, но бюджет не выдержан; файл принят как есть
	OutcomeDegraded Outcome = "degraded"
	// OutcomeFallback - обработка не удалась, сохранен исходный файл без изменений
	OutcomeFallback Outcome = "fallback"
)

// Result описывает итог сжатия одной фотографии
type Result struct {
	Path      string
	Outcome   Outcome
	Quality   int
	SizeBytes int64
}

// Pipeline - конвейер сжатия фотографий. Количество одновременных
// перекодирований ограничено семафором, чтобы CPU-затратные операции
// не блокировали обработку остальных запросов.
type Pipeline struct {
	sem       *semaphore.Weighted
	logger    *logrus.Logger
	maxSizeKB int
}

// NewPipeline создает конвейер с бюджетом размера в килобайтах и лимитом воркеров
func NewPipeline(maxSizeKB int, workers int64, logger *logrus.Logger) *Pipeline {
	if workers < 1 {
		workers = 1
	}
	return &Pipeline{
		sem:       semaphore.NewWeighted(workers),
		logger:    logger,
		maxSizeKB: maxSizeKB,
	}
}

// Process сжимает фотографию по пути inputPath до бюджета размера.
// Ошибки обработки не поднимаются наверх: в этом случае исходный файл
// остается нетронутым и возвращается как OutcomeFallback - фотография
// никогда не теряется из-за неудачного сжатия.
func (p *Pipeline) Process(ctx context.Context, inputPath string) Result {
	log := p.logger.WithFields(logrus.Fields{
		"component": "photo_pipeline",
		"input":     filepath.Base(inputPath),
	})

	fallback := Result{Path: inputPath, Outcome: OutcomeFallback}

	if err := p.sem.Acquire(ctx, 1); err != nil {
		log.WithError(err).Warn("Compression slot acquisition cancelled, keeping original")
		return fallback
	}
	defer p.sem.Release(1)

	img, err := imaging.Open(inputPath, imaging.AutoOrientation(true))
	if err != nil {
		log.WithError(err).Warn("Failed to decode image, keeping original")
		return fallback
	}

	// Уменьшаем большую сторону до maxDimension, никогда не увеличиваем
	bounds := img.Bounds()
	if bounds.Dx() > maxDimension || bounds.Dy() > maxDimension {
		img = imaging.Fit(img, maxDimension, maxDimension, imaging.Lanczos)
	}

	budget := p.maxSizeKB * 1024
	quality := startQuality
	var buf bytes.Buffer

	for {
		buf.Reset()
		if err := imaging.Encode(&buf, img, imaging.JPEG, imaging.JPEGQuality(quality)); err != nil {
			log.WithError(err).Warn("Failed to encode image, keeping original")
			return fallback
		}
		if buf.Len() <= budget || quality-qualityStep < qualityFloor {
			break
		}
		quality -= qualityStep
	}

	outPath := strings.TrimSuffix(inputPath, filepath.Ext(inputPath)) + "-compressed.jpg"
	if err := os.WriteFile(outPath, buf.Bytes(), 0o644); err != nil {
		log.WithError(err).Warn("Failed to write compressed image, keeping original")
		return fallback
	}

	// Исходник удаляется, остается только сжатый файл
	if err := os.Remove(inputPath); err != nil {
		log.WithError(err).Warn("Failed to remove original after compression")
	}

	result := Result{
		Path:      outPath,
		Outcome:   OutcomeCompressed,
		Quality:   quality,
		SizeBytes: int64(buf.Len()),
	}
	if buf.Len() > budget {
		result.Outcome = OutcomeDegraded
	}

	log.WithFields(logrus.Fields{
		"outcome": result.Outcome,
		"quality": result.Quality,
		"size_kb": result.SizeBytes / 1024,
	}).Info("Photo compression finished")
	return result
}
