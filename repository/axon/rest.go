package axon

import (
	"context"
	"encoding/json"
	"fmt"
	"github.com/cockroachdb/errors"
	"github.com/hashicorp/go-retryablehttp"
	"github.com/sirupsen/logrus"
	"github.com/tidwall/gjson"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

const maxErrorBodyLen = 256

// restSource 通过 PostgREST 风格的接口读取整张表：GET {base}/rest/v1/{table}?select=*
type restSource struct {
	client *retryablehttp.Client
	url    string
	key    string
	logger *logrus.Logger
}

func newRESTSource(config *Config, logger *logrus.Logger) *restSource {
	client := retryablehttp.NewClient()
	client.RetryMax = config.RetryMax
	client.RetryWaitMin = 200 * time.Millisecond
	client.RetryWaitMax = 2 * time.Second
	client.HTTPClient.Timeout = config.Timeout
	client.Logger = &printfLogger{logger: logger}

	return &restSource{
		client: client,
		url:    tableURL(config.BaseURL, config.table()),
		key:    config.PublishableKey,
		logger: logger,
	}
}

func tableURL(baseURL, table string) string {
	return fmt.Sprintf("%s/rest/v1/%s?select=*", strings.TrimRight(baseURL, "/"), url.PathEscape(table))
}

func (s *restSource) FetchAll(ctx context.Context) ([]Record, error) {
	req, err := retryablehttp.NewRequestWithContext(ctx, http.MethodGet, s.url, nil)
	if err != nil {
		return nil, markUnavailable(err, "build request fail")
	}

	req.Header.Set("apikey", s.key)
	req.Header.Set("Authorization", "Bearer "+s.key)
	req.Header.Set("Accept", "application/json")

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, markUnavailable(err, "request axon knowledge fail")
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, markUnavailable(err, "read response body fail")
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		err := errors.Newf("remote responded %d: %s", resp.StatusCode, truncate(body, maxErrorBodyLen))
		if resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden {
			err = errors.WithHint(err, "check the publishable key and the RLS policies of the table")
		}
		return nil, markUnavailable(err, "request axon knowledge fail")
	}

	records, err := parseRecords(body)
	if err != nil {
		return nil, markUnavailable(err, "parse axon knowledge fail")
	}

	s.logger.Debugf("fetched %d rows from %s", len(records), s.url)
	return records, nil
}

func truncate(body []byte, n int) string {
	if len(body) <= n {
		return string(body)
	}
	return string(body[:n]) + "..."
}

/*
parseRecords 解析形如 [{...}, {...}] 的响应体。

使用 gjson 逐个遍历对象的键，以保留列的顺序；数字保留原始文本（json.Number），避免整数 id 失真。
*/
func parseRecords(body []byte) ([]Record, error) {
	if !gjson.ValidBytes(body) {
		return nil, errors.New("response is not valid json")
	}

	result := gjson.ParseBytes(body)
	if !result.IsArray() {
		return nil, errors.Newf("response is not a row list: %s", truncate(body, maxErrorBodyLen))
	}

	records := make([]Record, 0)
	var rowErr error
	result.ForEach(func(_, row gjson.Result) bool {
		if !row.IsObject() {
			rowErr = errors.Newf("row %d is not an object", len(records))
			return false
		}

		record := NewRecord()
		row.ForEach(func(key, value gjson.Result) bool {
			record.Set(key.String(), jsonValue(value))
			return true
		})
		records = append(records, record)
		return true
	})

	if rowErr != nil {
		return nil, rowErr
	}

	return records, nil
}

func jsonValue(value gjson.Result) any {
	switch value.Type {
	case gjson.Null:
		return nil
	case gjson.False:
		return false
	case gjson.True:
		return true
	case gjson.Number:
		return json.Number(value.Raw)
	case gjson.String:
		return value.Str
	default:
		return value.Value()
	}
}
