package service

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/patrickmn/go-cache"

	"gw-transaction-view/internal/corridor"
	"gw-transaction-view/internal/custom_err"
	"gw-transaction-view/internal/kafka"
	"gw-transaction-view/internal/models"
	"gw-transaction-view/internal/storage/postgres"
)

// HistoryRequest — параметры выборки истории транзакций.
type HistoryRequest struct {
	From   time.Time
	To     time.Time
	Kind   models.CorridorKind // пустой — без фильтра
	Status models.ViewStatus   // пустой — без фильтра
	Limit  int
	Offset int
	// Hints — направления, закэшированные вызывающим слоем с прошлой
	// выборки той же логической транзакции, по id записи.
	Hints map[string]models.Direction
}

type History interface {
	GetTransactions(ctx context.Context, viewerID uuid.UUID, req HistoryRequest) (*models.HistoryResponse, error)
	GetTransactionByID(ctx context.Context, viewerID uuid.UUID, recordID string) (*models.TransactionView, error)
	GetUserAccounts(ctx context.Context, viewerID uuid.UUID) ([]models.MaskedAccountResponse, error)
	IngestRecord(ctx context.Context, viewerID uuid.UUID, raw *models.RawRecord) error
}

type HistoryService struct {
	recordRepo    postgres.RecordRepository
	accountRepo   postgres.AccountRepository
	userRepo      postgres.UserRepository
	normalizer    *corridor.Normalizer
	kafkaProducer kafka.Producer

	// кэш готовых представлений по хэшу содержимого записи
	viewCache *cache.Cache

	workers int
	log     *slog.Logger

	eventQueue chan models.NormalizationAnomalyEvent
	wg         sync.WaitGroup
	stopCh     chan struct{}
}

func NewHistoryService(
	recordRepo postgres.RecordRepository,
	accountRepo postgres.AccountRepository,
	userRepo postgres.UserRepository,
	normalizer *corridor.Normalizer,
	kafkaProducer kafka.Producer,
	cacheExpiration time.Duration,
	workers int,
	log *slog.Logger,
) *HistoryService {
	if workers <= 0 {
		workers = 4
	}

	svc := &HistoryService{
		recordRepo:    recordRepo,
		accountRepo:   accountRepo,
		userRepo:      userRepo,
		normalizer:    normalizer,
		kafkaProducer: kafkaProducer,
		viewCache:     cache.New(cacheExpiration, 2*cacheExpiration),
		workers:       workers,
		eventQueue:    make(chan models.NormalizationAnomalyEvent, 100),
		stopCh:        make(chan struct{}),
		log:           log,
	}

	for i := 0; i < 5; i++ {
		svc.wg.Add(1)
		go svc.kafkaWorker(i)
	}

	return svc
}

func (s *HistoryService) kafkaWorker(id int) {
	defer s.wg.Done()
	s.log.Info("kafka worker started", slog.Int("worker_id", id))

	for {
		select {
		case event := <-s.eventQueue:
			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			if err := s.kafkaProducer.SendAnomalyEvent(ctx, event); err != nil {
				s.log.Error("kafka send failed",
					slog.Int("worker_id", id),
					slog.String("tx_id", event.TransactionID),
					slog.String("error", err.Error()))
			} else {
				s.log.Info("event sent to kafka",
					slog.Int("worker_id", id),
					slog.String("tx_id", event.TransactionID))
			}
			cancel()

		case <-s.stopCh:
			s.log.Info("kafka worker stopping", slog.Int("worker_id", id))
			return
		}
	}
}

func (s *HistoryService) Shutdown(ctx context.Context) error {
	s.log.Info("shutting down history service")

	close(s.stopCh)

	done := make(chan struct{})
	go func() {
		s.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		s.log.Info("all kafka workers stopped")
		return nil
	case <-ctx.Done():
		s.log.Warn("shutdown timeout exceeded")
		return ctx.Err()
	}
}

func (s *HistoryService) GetTransactions(ctx context.Context, viewerID uuid.UUID, req HistoryRequest) (*models.HistoryResponse, error) {
	const op = "service.GetTransactions"

	if req.Limit <= 0 || req.Limit > 200 {
		req.Limit = 50
	}
	if req.To.IsZero() {
		req.To = time.Now().Add(24 * time.Hour)
	}

	viewer, idx, err := s.loadViewerContext(ctx, viewerID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	records, err := s.recordRepo.GetUserRecords(ctx, viewerID, req.From, req.To, req.Limit, req.Offset)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	total, err := s.recordRepo.CountUserRecords(ctx, viewerID, req.From, req.To)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	views, skipped := s.normalizeBatch(ctx, records, viewer, idx, req.Hints)

	if req.Kind != "" || req.Status != "" {
		filtered := views[:0]
		for _, v := range views {
			if req.Kind != "" && v.Kind != req.Kind {
				continue
			}
			if req.Status != "" && v.Status != req.Status {
				continue
			}
			filtered = append(filtered, v)
		}
		views = filtered
	}

	resp := &models.HistoryResponse{
		Groups:  groupByDay(views),
		Total:   total,
		Skipped: skipped,
	}
	return resp, nil
}

// IngestRecord сохраняет сырую запись пользователя как есть. Непредставимые
// записи отклоняются на входе, а не при чтении истории.
func (s *HistoryService) IngestRecord(ctx context.Context, viewerID uuid.UUID, raw *models.RawRecord) error {
	const op = "service.IngestRecord"

	if raw == nil || raw.ID == "" {
		return fmt.Errorf("missing id: %w", custom_err.ErrUnrepresentable)
	}
	if raw.CreatedAt.IsZero() {
		raw.CreatedAt = time.Now()
	}
	if _, ok := raw.GrossAmount(); !ok {
		return fmt.Errorf("missing amount: %w", custom_err.ErrUnrepresentable)
	}

	if err := s.recordRepo.Upsert(ctx, viewerID, raw); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	s.log.Info("запись сохранена",
		slog.String("record_id", raw.ID),
		slog.String("user_id", viewerID.String()))
	return nil
}

// normalizeBatch нормализует записи параллельно с ограничением на число
// воркеров. Записи независимы, порядок результата восстанавливается по
// индексу. Индекс счетов разделяется между горутинами только на чтение.
func (s *HistoryService) normalizeBatch(ctx context.Context, records []models.RawRecord, viewer corridor.Viewer, idx *corridor.AccountIndex, hints map[string]models.Direction) ([]models.TransactionView, int) {
	type slot struct {
		view models.TransactionView
		ok   bool
	}

	slots := make([]slot, len(records))
	sem := make(chan struct{}, s.workers)
	var wg sync.WaitGroup

	for i := range records {
		wg.Add(1)
		sem <- struct{}{}
		go func(i int) {
			defer wg.Done()
			defer func() { <-sem }()

			raw := &records[i]
			view, err := s.normalizeOne(ctx, raw, viewer, idx, hints[raw.ID])
			if err != nil {
				s.log.Warn("record skipped",
					slog.String("record_id", raw.ID),
					slog.String("error", err.Error()))
				return
			}
			slots[i] = slot{view: *view, ok: true}
		}(i)
	}
	wg.Wait()

	views := make([]models.TransactionView, 0, len(records))
	skipped := 0
	for _, sl := range slots {
		if sl.ok {
			views = append(views, sl.view)
		} else {
			skipped++
		}
	}
	return views, skipped
}

func (s *HistoryService) GetTransactionByID(ctx context.Context, viewerID uuid.UUID, recordID string) (*models.TransactionView, error) {
	const op = "service.GetTransactionByID"

	viewer, idx, err := s.loadViewerContext(ctx, viewerID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	raw, err := s.recordRepo.GetByID(ctx, viewerID, recordID)
	if err != nil {
		if errors.Is(err, custom_err.ErrNotFound) {
			return nil, custom_err.ErrNotFound
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return s.normalizeOne(ctx, raw, viewer, idx, "")
}

func (s *HistoryService) GetUserAccounts(ctx context.Context, viewerID uuid.UUID) ([]models.MaskedAccountResponse, error) {
	const op = "service.GetUserAccounts"

	accounts, err := s.accountRepo.GetUserAccounts(ctx, viewerID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	resp := make([]models.MaskedAccountResponse, 0, len(accounts))
	for _, acc := range accounts {
		resp = append(resp, models.MaskedAccountResponse{
			ID:       acc.ID,
			Kind:     acc.Kind,
			Masked:   maskNumber(acc),
			CardType: acc.CardType,
			Token:    acc.Token,
			Network:  acc.Network,
		})
	}
	return resp, nil
}

func maskNumber(acc models.KnownAccount) string {
	switch acc.Kind {
	case models.AccountBank:
		return corridor.MaskIBAN(acc.Number)
	case models.AccountCrypto:
		return corridor.MaskAddress(acc.Number)
	}
	return corridor.MaskCard(acc.Number)
}

// normalizeOne нормализует одну запись с кэшированием по содержимому.
// Ключ включает хэш записи и id пользователя: одна и та же запись дает
// разные представления разным сторонам перевода.
func (s *HistoryService) normalizeOne(ctx context.Context, raw *models.RawRecord, viewer corridor.Viewer, idx *corridor.AccountIndex, hint models.Direction) (*models.TransactionView, error) {
	key := cacheKey(raw, viewer.ID, hint)
	if cached, found := s.viewCache.Get(key); found {
		view := cached.(models.TransactionView)
		return &view, nil
	}

	res, err := s.normalizer.Normalize(raw, viewer, idx, hint)
	if err != nil {
		return nil, err
	}

	if res.UnknownTag {
		s.log.Warn("неизвестный тег записи, использован generic-коридор",
			slog.String("record_id", raw.ID),
			slog.String("raw_type", raw.Type))
		s.enqueueAnomaly(models.NormalizationAnomalyEvent{
			TransactionID: raw.ID,
			UserID:        viewer.ID.String(),
			Reason:        "unknown_tag",
			RawType:       raw.Type,
			Timestamp:     time.Now(),
		})
	}
	if res.NetMismatch != nil {
		s.log.Warn("нетто апстрима расходится с вычисленным",
			slog.String("record_id", raw.ID),
			slog.Float64("supplied", res.NetMismatch.Supplied),
			slog.Float64("computed", res.NetMismatch.Computed))
		s.enqueueAnomaly(models.NormalizationAnomalyEvent{
			TransactionID: raw.ID,
			UserID:        viewer.ID.String(),
			Reason:        "net_mismatch",
			RawType:       raw.Type,
			SuppliedNet:   res.NetMismatch.Supplied,
			ComputedNet:   res.NetMismatch.Computed,
			Timestamp:     time.Now(),
		})
	}

	s.viewCache.Set(key, res.View, cache.DefaultExpiration)
	return &res.View, nil
}

func (s *HistoryService) enqueueAnomaly(event models.NormalizationAnomalyEvent) {
	select {
	case s.eventQueue <- event:
		s.log.Debug("событие аномалии добавлено в очередь", slog.String("transaction_id", event.TransactionID))
	default:
		s.log.Error("очередь событий переполнена, событие отброшено",
			slog.String("transaction_id", event.TransactionID),
			slog.String("reason", event.Reason))
	}
}

func (s *HistoryService) loadViewerContext(ctx context.Context, viewerID uuid.UUID) (corridor.Viewer, *corridor.AccountIndex, error) {
	user, err := s.userRepo.GetByID(ctx, viewerID)
	if err != nil {
		return corridor.Viewer{}, nil, fmt.Errorf("failed to get viewer: %w", err)
	}

	accounts, err := s.accountRepo.GetUserAccounts(ctx, viewerID)
	if err != nil {
		return corridor.Viewer{}, nil, fmt.Errorf("failed to get accounts: %w", err)
	}

	viewer := corridor.Viewer{ID: user.ID, DisplayName: user.DisplayName}
	return viewer, corridor.NewAccountIndex(accounts), nil
}

// cacheKey — sha256 от содержимого записи, id пользователя и подсказки
// направления. Изменение любого поля записи инвалидирует кэш само собой.
func cacheKey(raw *models.RawRecord, viewerID uuid.UUID, hint models.Direction) string {
	payload, _ := json.Marshal(raw)
	h := sha256.New()
	h.Write(payload)
	h.Write([]byte(viewerID.String()))
	h.Write([]byte(hint))
	return hex.EncodeToString(h.Sum(nil))
}

// groupByDay раскладывает транзакции по дням с суммой расходов за день.
// Расходом считается нетто исходящих операций в фиате.
func groupByDay(views []models.TransactionView) []models.TransactionGroup {
	byDate := make(map[string][]models.TransactionView)
	for _, v := range views {
		date := v.Timestamp.Format("2006-01-02")
		byDate[date] = append(byDate[date], v)
	}

	dates := make([]string, 0, len(byDate))
	for date := range byDate {
		dates = append(dates, date)
	}
	sort.Sort(sort.Reverse(sort.StringSlice(dates)))

	groups := make([]models.TransactionGroup, 0, len(dates))
	for _, date := range dates {
		items := byDate[date]
		sort.Slice(items, func(i, j int) bool {
			return items[i].Timestamp.After(items[j].Timestamp)
		})

		var spend float64
		for _, v := range items {
			if v.Direction == models.DirectionOutgoing && v.Net.Currency == corridor.CurrencyAED {
				spend += v.Net.Amount
			}
		}

		groups = append(groups, models.TransactionGroup{
			Date:         date,
			TotalSpend:   corridor.Round2(spend),
			Transactions: items,
		})
	}
	return groups
}
