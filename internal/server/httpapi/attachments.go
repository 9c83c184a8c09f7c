package httpapi

import (
	"net/http"

	"github.com/gorilla/mux"
)

func (h *handler) listAttachments(w http.ResponseWriter, r *http.Request) {
	list, err := h.Attachments.List(r.Context(), userIDFrom(r.Context()), mux.Vars(r)["id"])
	if err != nil {
		h.fail(w, r, err)
		return
	}
	out := make([]attachmentResponse, 0, len(list))
	for _, a := range list {
		out = append(out, toAttachment(a))
	}
	writeJSON(w, http.StatusOK, out)
}

func (h *handler) requestUpload(w http.ResponseWriter, r *http.Request) {
	var req struct {
		FileName    string `json:"fileName"`
		ContentType string `json:"contentType"`
	}
	if err := decode(r, &req); err != nil {
		h.fail(w, r, err)
		return
	}
	ticket, err := h.Attachments.RequestUpload(r.Context(), userIDFrom(r.Context()), mux.Vars(r)["id"], req.FileName, req.ContentType)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, struct {
		Attachment attachmentResponse `json:"attachment"`
		UploadURL  string             `json:"uploadUrl"`
	}{toAttachment(ticket.Attachment), ticket.URL})
}

func (h *handler) markUploaded(w http.ResponseWriter, r *http.Request) {
	if err := h.Attachments.MarkUploaded(r.Context(), userIDFrom(r.Context()), mux.Vars(r)["id"]); err != nil {
		h.fail(w, r, err)
		return
	}
	writeMessage(w, http.StatusOK, "Upload recorded")
}

func (h *handler) downloadAttachment(w http.ResponseWriter, r *http.Request) {
	url, err := h.Attachments.DownloadURL(r.Context(), userIDFrom(r.Context()), mux.Vars(r)["id"])
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"url": url})
}
