package components

import "github.com/a-h/templ"

// ToastID is the element id every toast patch targets.
const ToastID = "toast"

// Toast kinds.
const (
	ToastError   = "error"
	ToastSuccess = "success"
)

// Toast renders a transient notification.
func Toast(message, kind string) templ.Component {
	return Component(func(h *HTML) {
		h.Element("div", message,
			"id", ToastID,
			"class", Classes("toast", "toast-"+kind),
			"role", "alert")
	})
}

// EmptyToast renders the hidden toast placeholder.
func EmptyToast() templ.Component {
	return Component(func(h *HTML) {
		h.Open("div", "id", ToastID, "class", "toast toast-hidden", "aria-live", "polite")
		h.Close("div")
	})
}
