package wallet

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"web3_tools/internal/config"
	"web3_tools/internal/entities"
	"web3_tools/internal/logger"
	"web3_tools/internal/upstream"
	"web3_tools/internal/utils"

	"go.uber.org/zap"
)

const provider = "etherscan"

type Service struct {
	log    logger.AppLogger
	client *upstream.Client
	conf   config.EtherscanConf
}

type txListResponse struct {
	Status  string          `json:"status"`
	Message string          `json:"message"`
	Result  json.RawMessage `json:"result"`
}

type txRecord struct {
	Hash        string `json:"hash"`
	From        string `json:"from"`
	To          string `json:"to"`
	Value       string `json:"value"`
	TimeStamp   string `json:"timeStamp"`
	BlockNumber string `json:"blockNumber"`
}

func InitService(log logger.AppLogger, client *upstream.Client, conf config.EtherscanConf) *Service {
	srv := &Service{
		log:    log.With(zap.String("service", "wallet")),
		client: client,
		conf:   conf,
	}
	if !conf.HasAPIKey() {
		srv.log.Warn("etherscan api key is not configured, wallet-tx calls will fail")
	}
	return srv
}

func (s *Service) DefaultLimit() int {
	return s.conf.DefaultLimit
}

// Transactions returns the newest limit transactions of address, values in ether.
func (s *Service) Transactions(ctx context.Context, address string, limit int) (*entities.WalletHistory, error) {
	if !s.conf.HasAPIKey() {
		return nil, entities.NewToolError(entities.CodeMissingAPIKey, "ETHERSCAN_API_KEY is not configured")
	}
	if limit <= 0 {
		limit = s.conf.DefaultLimit
	}
	limit = min(limit, entities.MaxLimit)
	address = strings.TrimSpace(address)

	rawURL := s.txListURL(address, limit)
	var res txListResponse
	if err := s.client.GetJSON(ctx, provider, rawURL, &res); err != nil {
		toolErr := upstream.Classify(provider, err)
		s.log.Info("wallet lookup failed", zap.String("address", address), zap.String("code", toolErr.Code))
		return nil, toolErr
	}
	if res.Status != "1" {
		s.log.Info("etherscan reported failure", zap.String("address", address), zap.String("message", res.Message))
		return nil, entities.NewToolError(entities.ProviderFailed(provider), res.Message).
			With("result", rawResult(res.Result))
	}

	var records []txRecord
	if err := json.Unmarshal(res.Result, &records); err != nil {
		toolErr := upstream.Classify(provider, upstream.NewParseError(provider, rawURL, err))
		return nil, toolErr
	}
	records = utils.Limit(records, limit)

	txs := make([]entities.WalletTransaction, 0, len(records))
	for _, rec := range records {
		value, err := utils.WeiToEther(rec.Value)
		if err != nil {
			return nil, upstream.Classify(provider, upstream.NewParseError(provider, rawURL, err))
		}
		txs = append(txs, entities.WalletTransaction{
			Hash:        rec.Hash,
			From:        rec.From,
			To:          rec.To,
			ValueEth:    value,
			Timestamp:   rec.TimeStamp,
			BlockNumber: rec.BlockNumber,
		})
	}
	return &entities.WalletHistory{
		Status:       entities.StatusSuccess,
		Address:      address,
		Transactions: txs,
	}, nil
}

func (s *Service) txListURL(address string, limit int) string {
	params := url.Values{}
	params.Set("chainid", strconv.Itoa(s.conf.ChainID))
	params.Set("module", "account")
	params.Set("action", "txlist")
	params.Set("address", address)
	params.Set("startblock", "0")
	params.Set("endblock", "99999999")
	params.Set("page", "1")
	params.Set("offset", strconv.Itoa(limit))
	params.Set("sort", "desc")
	params.Set("apikey", s.conf.APIKey)
	return fmt.Sprintf("%s?%s", s.conf.BaseURL, params.Encode())
}

// rawResult keeps the provider's result for diagnostics, decoded when it is valid json.
func rawResult(raw json.RawMessage) any {
	if len(raw) == 0 {
		return nil
	}
	var v any
	if err := json.Unmarshal(raw, &v); err != nil {
		return string(raw)
	}
	return v
}
