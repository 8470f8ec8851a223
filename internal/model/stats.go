package model

import (
	"fmt"
	"strconv"
	"strings"
)

// eventsEndpoint 事件頁面 URI 前綴，EventURI 與 ParseEventURI 必須成對使用
const eventsEndpoint = "/events"

// EndpointHit 一次頁面瀏覽紀錄，統計服務的寫入單位
type EndpointHit struct {
	ID        int64    `json:"-" db:"id"`
	App       string   `json:"app" binding:"required"`
	URI       string   `json:"uri" binding:"required"`
	IP        string   `json:"ip" binding:"required"`
	Timestamp DateTime `json:"timestamp" binding:"required"`
}

// ViewStats 依 (app, uri) 聚合後的瀏覽數
type ViewStats struct {
	App  string `json:"app"`
	URI  string `json:"uri"`
	Hits int64  `json:"hits"`
}

// EventURI 組出事件頁面的 URI
func EventURI(eventID int64) string {
	return fmt.Sprintf("%s/%d", eventsEndpoint, eventID)
}

// ParseEventURI 從事件頁面 URI 取回事件 id，與 EventURI 對稱
func ParseEventURI(uri string) (int64, bool) {
	rest, found := strings.CutPrefix(uri, eventsEndpoint+"/")
	if !found {
		return 0, false
	}
	id, err := strconv.ParseInt(rest, 10, 64)
	if err != nil {
		return 0, false
	}
	return id, true
}
