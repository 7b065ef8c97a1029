package error

const (
	// 0 ~ 999: 成功類別
	SUCCESS = 0 // 200 OK

	// 40000 ~ 49999: 用戶請求錯誤 (400 系列)
	BAD_REQUEST_BODY    = 40000 // 400 - 無效的請求體
	BAD_REQUEST_PARAMS  = 40001 // 400 - 無效的請求參數
	BAD_REQUEST_HEADERS = 40002 // 400 - 無效的請求標頭
	INCOMPLETE_BODY     = 40003 // 400 - 請求體長度不足 Content-Length

	// 40400 ~ 40499: 資源錯誤 (404 系列)
	NOT_FOUND = 40400 // 404 - 資源未找到

	// 40500 ~ 41199: 協定錯誤
	METHOD_NOT_ALLOWED = 40500 // 405 - 不支援的方法
	LENGTH_REQUIRED    = 41100 // 411 - 缺少 Content-Length
	PAYLOAD_TOO_LARGE  = 41300 // 413 - 超過單一 datagram 上限

	// 50000 ~ 50199: 伺服器內部錯誤 (500 系列)
	INTERNAL_ERROR      = 50000 // 500 - 內部錯誤
	STORAGE_ERROR       = 50001 // 500 - 儲存錯誤
	SERVICE_UNAVAILABLE = 50002 // 503 - 服務暫停 (維護模式)

	// 50200 ~ 50499: 轉送錯誤 (502 504 系列)
	RELAY_ERROR     = 50200 // 502 - datagram 轉送失敗
	GATEWAY_TIMEOUT = 50400 // 504 - 轉送逾時
)
