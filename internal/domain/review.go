package domain

import "time"

// RawReview is one record as produced by the scraper. Nothing in it is trusted:
// keys may be missing and values may have any JSON-ish type.
type RawReview map[string]any

// HotelInfo is the operator-supplied metadata shared by a whole batch.
type HotelInfo struct {
	Name    string `json:"name" yaml:"name"`
	City    string `json:"city" yaml:"city"`
	Country string `json:"country" yaml:"country"`
}

// NormalizedReview is the storage-ready form of a RawReview. Text fields are nil or
// non-empty strings inside the Windows-1252 repertoire; blobs are already encoded.
type NormalizedReview struct {
	BizName            *string
	BizCity            *string
	BizCountry         *string
	Username           *string
	UserCountry        *string
	RoomView           *string
	StayDuration       *int
	StayType           *string
	ReviewPostDate     *time.Time
	ReviewTitle        *string
	Rating             *int
	OriginalLang       *string
	ReviewTextLiked    *string
	ReviewTextDisliked *string
	FullReview         []byte // {"title","liked","disliked"} JSON, cp1252
	EnFullReview       []byte
	FoundHelpful       int
	FoundUnhelpful     int
	OwnerRespText      []byte
	Hash               string
}

// FullReviewBundle is the keyed document stored in full_review.
type FullReviewBundle struct {
	Title    string `json:"title"`
	Liked    string `json:"liked"`
	Disliked string `json:"disliked"`
}

// ReviewView is a persisted row decoded back for reading.
type ReviewView struct {
	ID                 string            `json:"id"`
	BizName            *string           `json:"biz_name,omitempty"`
	BizCity            *string           `json:"biz_city,omitempty"`
	BizCountry         *string           `json:"biz_country,omitempty"`
	Username           *string           `json:"username,omitempty"`
	UserCountry        *string           `json:"user_country,omitempty"`
	RoomView           *string           `json:"room_view,omitempty"`
	StayDuration       *int              `json:"stay_duration,omitempty"`
	StayType           *string           `json:"stay_type,omitempty"`
	ReviewPostDate     *time.Time        `json:"review_post_date,omitempty"`
	ReviewTitle        *string           `json:"review_title,omitempty"`
	Rating             *int              `json:"rating,omitempty"`
	OriginalLang       *string           `json:"original_lang,omitempty"`
	ReviewTextLiked    *string           `json:"review_text_liked,omitempty"`
	ReviewTextDisliked *string           `json:"review_text_disliked,omitempty"`
	FullReview         *FullReviewBundle `json:"full_review,omitempty"`
	EnFullReview       *string           `json:"en_full_review,omitempty"`
	FoundHelpful       int               `json:"found_helpful"`
	FoundUnhelpful     int               `json:"found_unhelpful"`
	OwnerRespText      *string           `json:"owner_resp_text,omitempty"`
	Hash               string            `json:"hash"`
}
