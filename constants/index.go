package constants

const (
	ERROR_INTERNAL_ERROR     = "Đã xảy ra lỗi, vui lòng thử lại sau"
	DATA_INPUT_IS_NOT_NUMBER = "Dữ liệu truyền vào không phải là số"

	MISSING_LOGIN_INPUT = "Thiếu thông tin đăng nhập"
	INVALID_EMAIL       = "Email không tồn tại"
	INVALID_PASSWORD    = "Mật khẩu không đúng"
	EMAIL_EXISTS        = "Email đã được đăng ký"
	ACCOUNT_NOT_ACTIVE  = "Tài khoản đã bị khóa"

	BOOKING_NOT_FOUND     = "Không tìm thấy đơn đặt vé"
	BOOKING_EXPIRED       = "Đơn đặt vé đã hết hạn thanh toán"
	BOOKING_NOT_PENDING   = "Đơn đặt vé không còn chờ thanh toán"
	SEATS_ALREADY_TAKEN   = "Một số ghế đã có người đặt"
	ROOM_NOT_FOUND        = "Phòng chiếu không tồn tại"
	AMOUNT_MISMATCH       = "Số tiền thanh toán không khớp với đơn đặt vé"
	PAYMENT_CREATE_FAILED = "Không thể tạo thanh toán"
)

const (
	PAYMENT_METHOD_VNPAY = "VNPAY"
	PAYMENT_METHOD_PAYOS = "PAYOS"
	PAYMENT_METHOD_CASH  = "CASH"
)
