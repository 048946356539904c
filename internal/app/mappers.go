package app

import (
	"bytes"
	"encoding/json"

	"github.com/rs/zerolog"

	"booking_reviews/internal/charset"
	"booking_reviews/internal/domain"
)

/********** scraper field names **********/

const (
	fieldUsername       = "username"
	fieldPostDate       = "review_post_date"
	fieldTitle          = "review_title"
	fieldRating         = "rating"
	fieldStayDuration   = "stay_duration"
	fieldStayType       = "stay_type"
	fieldOriginalLang   = "original_lang"
	fieldLiked          = "review_text_liked"
	fieldDisliked       = "review_text_disliked"
	fieldEnFullReview   = "en_full_review"
	fieldOwnerResp      = "owner_resp_text"
	fieldFoundHelpful   = "found_helpful"
	fieldFoundUnhelpful = "found_unhelpful"
	fieldUserCountry    = "user_country"
	fieldRoomView       = "room_view"
)

// Assembler turns scraped records into storage-ready reviews. It never fails:
// a field that cannot be coerced is left nil.
type Assembler struct {
	log        zerolog.Logger
	dateLayout string
}

func NewAssembler(l zerolog.Logger, dateLayout string) *Assembler {
	if dateLayout == "" {
		dateLayout = DefaultPostDateLayout
	}
	return &Assembler{log: l, dateLayout: dateLayout}
}

func (a *Assembler) Assemble(r domain.RawReview, hotel domain.HotelInfo) domain.NormalizedReview {
	rv := domain.NormalizedReview{
		BizName:    charset.Sanitize(hotel.Name),
		BizCity:    charset.Sanitize(hotel.City),
		BizCountry: charset.Sanitize(hotel.Country),

		Username:           text(r, fieldUsername),
		UserCountry:        text(r, fieldUserCountry),
		RoomView:           text(r, fieldRoomView),
		StayType:           text(r, fieldStayType),
		ReviewTitle:        text(r, fieldTitle),
		OriginalLang:       text(r, fieldOriginalLang),
		ReviewTextLiked:    text(r, fieldLiked),
		ReviewTextDisliked: text(r, fieldDisliked),

		ReviewPostDate: coerceDate(r[fieldPostDate], a.dateLayout),
		Rating:         coerceRating(r[fieldRating]),
		StayDuration:   coerceInt(r[fieldStayDuration]),
		FoundHelpful:   coerceCounter(r[fieldFoundHelpful], 0),
		FoundUnhelpful: coerceCounter(r[fieldFoundUnhelpful], 0),

		EnFullReview:  blob(r, fieldEnFullReview),
		OwnerRespText: blob(r, fieldOwnerResp),

		// identity comes from the raw values, not the sanitized ones
		Hash: FingerprintOf(r),
	}
	rv.FullReview = a.bundle(rv.ReviewTitle, rv.ReviewTextLiked, rv.ReviewTextDisliked)
	return rv
}

// bundle packs title/liked/disliked into the full_review document. It is nil
// when all three are missing or when the document cannot be encoded.
func (a *Assembler) bundle(title, liked, disliked *string) []byte {
	if title == nil && liked == nil && disliked == nil {
		return nil
	}
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	err := enc.Encode(domain.FullReviewBundle{
		Title:    deref(title),
		Liked:    deref(liked),
		Disliked: deref(disliked),
	})
	if err != nil {
		a.log.Warn().Err(err).Str("context", "full_review").Msg("marshal full_review failed")
		return nil
	}
	out, err := charset.EncodeStrict(string(bytes.TrimRight(buf.Bytes(), "\n")))
	if err != nil {
		a.log.Warn().Err(err).Str("context", "full_review").Msg("could not encode full_review as WIN1252")
		return nil
	}
	return out
}

/********** tiny helpers **********/

func text(r domain.RawReview, key string) *string {
	v, ok := r[key]
	if !ok || v == nil {
		return nil
	}
	return charset.Sanitize(rawString(v))
}

func blob(r domain.RawReview, key string) []byte {
	s := text(r, key)
	if s == nil {
		return nil
	}
	return charset.Encode(*s)
}

func deref(p *string) string {
	if p == nil {
		return ""
	}
	return *p
}
