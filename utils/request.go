package utils

import (
	"net/http"
	"time"

	"github.com/go-resty/resty/v2"
)

var client *resty.Client

const UserAgent = "pageforge/1.0 (+https://github.com/pageforge)"

// SetRetry changes the retry policy of the shared client.
func SetRetry(count int, wait time.Duration) {
	client.SetRetryCount(count).SetRetryWaitTime(wait)
}

func init() {
	client = resty.New()
	client.SetTimeout(30 * time.Second)
	client.SetRetryCount(10).
		SetRetryWaitTime(3 * time.Second).
		SetRetryAfter(func(client *resty.Client, resp *resty.Response) (time.Duration, error) {
			if resp.StatusCode() == http.StatusTooManyRequests {
				if retryAfter := resp.Header().Get("Retry-After"); retryAfter != "" {
					if seconds, err := time.ParseDuration(retryAfter + "s"); err == nil {
						return seconds, nil
					}
					if t, err := http.ParseTime(retryAfter); err == nil {
						return time.Until(t), nil
					}
				}
				return 3 * time.Second, nil
			}
			return 0, nil
		}).
		AddRetryCondition(func(r *resty.Response, err error) bool {
			return err != nil || r.StatusCode() == http.StatusTooManyRequests
		})
}

func Request() *resty.Request {
	return client.R().SetLogger(disableLogger{}).SetHeader("Accept", "text/html,application/xhtml+xml").SetHeader("Accept-Charset", "utf-8").SetHeader("User-Agent", UserAgent)
}

type disableLogger struct{}

func (d disableLogger) Errorf(string, ...interface{}) {}
func (d disableLogger) Warnf(string, ...interface{})  {}
func (d disableLogger) Debugf(string, ...interface{}) {}
