// FILE: internal/dto/collect_dto.go
package dto

type CollectResponse struct {
	Key string `json:"key"`
	// Fallback is set when the record had to be stored under the timestamp key.
	Fallback bool `json:"-"`
}
