// Package httputil fetches remote documents with retries.
//
// # Retry
//
// [Retry] runs an operation up to a fixed number of times with exponential
// backoff. Only errors wrapped in [RetryableError] are retried:
//
//	err := httputil.Retry(ctx, 3, time.Second, func() error {
//	    resp, err := client.Do(req)
//	    if err != nil {
//	        return &httputil.RetryableError{Err: err}
//	    }
//	    ...
//	})
//
// # Fetch
//
// [Fetch] performs a GET with retries on network errors, 5xx responses and
// 429 rate limits. Other 4xx responses fail immediately. Bodies larger than
// [Options.MaxBytes] are rejected.
package httputil
