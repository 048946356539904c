package mysql

// Identity is enforced here, not by a unique key: hash is only indexed.
const countByHashSQL = `SELECT COUNT(*) FROM reviews WHERE hash = ?`

const insertReviewSQL = `
INSERT INTO reviews (
  id, biz_name, biz_city, biz_country,
  username, user_country, room_view, stay_duration,
  stay_type, review_post_date, review_title, rating,
  original_lang, review_text_liked, review_text_disliked,
  full_review, en_full_review, found_helpful,
  found_unhelpful, owner_resp_text, hash
) VALUES (
  ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?
)
`

// -----------------------------------------------------------------------------
// READ QUERIES
// -----------------------------------------------------------------------------

const reviewColumns = `
  id, biz_name, biz_city, biz_country,
  username, user_country, room_view, stay_duration,
  stay_type, review_post_date, review_title, rating,
  original_lang, review_text_liked, review_text_disliked,
  full_review, en_full_review, found_helpful,
  found_unhelpful, owner_resp_text, hash`

// The same fingerprint may in theory exist twice (rows written outside this
// service); the oldest id wins for lookups.
const getReviewByHashSQL = `SELECT` + reviewColumns + `
FROM reviews
WHERE hash = ?
ORDER BY id
LIMIT 1`

// Newest first, undated reviews last.
const listReviewsSQL = `SELECT` + reviewColumns + `
FROM reviews
ORDER BY review_post_date IS NULL, review_post_date DESC, id
LIMIT ?`

const listHotelReviewsSQL = `SELECT` + reviewColumns + `
FROM reviews
WHERE biz_name = ?
ORDER BY review_post_date IS NULL, review_post_date DESC, id
LIMIT ?`

const countReviewsSQL = `SELECT COUNT(*) FROM reviews`

const countHotelReviewsSQL = `SELECT COUNT(*) FROM reviews WHERE biz_name = ?`
