package catalog

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"time"
)

// FetchFunc 拉取一份完整目录。Store 通过注入 FetchFunc 解耦数据来源，
// 测试时可以直接注入假数据。
type FetchFunc func(ctx context.Context) ([]SkillRecord, error)

// LoadFile 从本地 JSON 文件读取目录（SkillRecord 数组）。
func LoadFile(path string) ([]SkillRecord, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read catalog file: %w", err)
	}

	var records []SkillRecord
	if err := json.Unmarshal(data, &records); err != nil {
		return nil, fmt.Errorf("parse catalog file %s: %w", path, err)
	}
	return records, nil
}

// FileFetcher 返回读取固定本地文件的 FetchFunc。
func FileFetcher(path string) FetchFunc {
	return func(ctx context.Context) ([]SkillRecord, error) {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		return LoadFile(path)
	}
}

// HTTPFetcher 返回从 url 拉取目录的 FetchFunc。
// client 为 nil 时使用 10 秒超时的默认客户端。
func HTTPFetcher(url string, client *http.Client) FetchFunc {
	if client == nil {
		client = &http.Client{Timeout: 10 * time.Second}
	}
	return func(ctx context.Context) ([]SkillRecord, error) {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
		if err != nil {
			return nil, fmt.Errorf("build catalog request: %w", err)
		}

		resp, err := client.Do(req)
		if err != nil {
			return nil, fmt.Errorf("fetch catalog: %w", err)
		}
		defer resp.Body.Close()

		if resp.StatusCode != http.StatusOK {
			return nil, fmt.Errorf("fetch catalog: unexpected status %d", resp.StatusCode)
		}

		body, err := io.ReadAll(io.LimitReader(resp.Body, 32<<20))
		if err != nil {
			return nil, fmt.Errorf("read catalog response: %w", err)
		}

		var records []SkillRecord
		if err := json.Unmarshal(body, &records); err != nil {
			return nil, fmt.Errorf("parse catalog response: %w", err)
		}
		return records, nil
	}
}
