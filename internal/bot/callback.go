package bot

import "strings"

// Префиксы callback-данных мастеров.
const (
	flowClass = "cc" // покупка пакета занятий
	flowEdit  = "ae" // перенос записи
)

const (
	actPick    = "pick"
	actDate    = "date"
	actTime    = "time"
	actNext    = "next"
	actBack    = "back"
	actCancel  = "cancel"
	actConfirm = "confirm"
)

const callbackDateLayout = "2006-01-02"

// callback — разобранные данные inline-кнопки вида flow:action[:arg]. Аргумент может содержать ':' (время).
type callback struct {
	flow   string
	action string
	arg    string
}

func parseCallback(data string) (callback, bool) {
	parts := strings.SplitN(data, ":", 3)
	if len(parts) < 2 || parts[0] == "" || parts[1] == "" {
		return callback{}, false
	}
	cb := callback{flow: parts[0], action: parts[1]}
	if len(parts) == 3 {
		cb.arg = parts[2]
	}
	return cb, true
}

func cbData(flow, action string, arg ...string) string {
	if len(arg) == 0 {
		return flow + ":" + action
	}
	return flow + ":" + action + ":" + arg[0]
}
