package model

// Counter cấp số thứ tự tăng dần (mã hóa đơn, mã phòng).
// Tăng bằng UPDATE seq = seq + 1 trong transaction, không đọc-rồi-ghi.
type Counter struct {
	Name string `gorm:"primaryKey;size:30" json:"name"`
	Seq  int64  `json:"seq"`
}
