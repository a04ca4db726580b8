package delivery

import "net/http"

// Strategy — способ доставки токенов между сервером и клиентом.
// Закрытый набор вариантов: cookie (браузер) и bearer-заголовок (мобильный
// клиент). Вариант выбирает вызывающий код явно — внутри общей логики
// канал доставки никогда не «угадывается».
type Strategy interface {
	// Extract достаёт сырой токен из запроса; "" — токена нет
	Extract(r *http.Request) string
	// Deliver записывает пару токенов в ответ
	Deliver(w http.ResponseWriter, accessToken, refreshToken string)
	// Clear убирает токены на клиенте
	Clear(w http.ResponseWriter)
}

// Select возвращает стратегию по признаку мобильного клиента.
func Select(isMobile bool, cookie, header Strategy) Strategy {
	if isMobile {
		return header
	}
	return cookie
}

// IsMobileRequest — мобильный клиент опознаётся по наличию
// Authorization-заголовка (правило для rotate/logout; login получает
// явный флаг ?mobile=).
func IsMobileRequest(r *http.Request) bool {
	return r.Header.Get("Authorization") != ""
}
