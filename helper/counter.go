package helper

import (
	"errors"

	"cinema_booking/model"

	"gorm.io/gorm"
)

// NextSequence tăng counter và trả về giá trị mới, an toàn khi gọi song song.
// Tăng bằng UPDATE seq = seq + 1 ngay trên DB rồi mới đọc lại trong cùng
// transaction, không có khoảng hở đọc-rồi-ghi.
func NextSequence(tx *gorm.DB, name string) (int64, error) {
	res := tx.Model(&model.Counter{}).Where("name = ?", name).
		Update("seq", gorm.Expr("seq + ?", 1))
	if res.Error != nil {
		return 0, res.Error
	}

	if res.RowsAffected == 0 {
		if err := tx.Create(&model.Counter{Name: name, Seq: 1}).Error; err != nil {
			if !errors.Is(err, gorm.ErrDuplicatedKey) {
				return 0, err
			}
			// counter vừa được tạo bởi transaction khác, tăng lại
			res = tx.Model(&model.Counter{}).Where("name = ?", name).
				Update("seq", gorm.Expr("seq + ?", 1))
			if res.Error != nil {
				return 0, res.Error
			}
		} else {
			return 1, nil
		}
	}

	var ctr model.Counter
	if err := tx.Where("name = ?", name).First(&ctr).Error; err != nil {
		return 0, err
	}
	return ctr.Seq, nil
}
