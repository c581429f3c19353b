package models

// Like is a directed edge between two users. At most one edge exists per
// ordered (likedFrom, likedTo) pair; existence is the whole fact.
type Like struct {
	LikedFrom string `dynamodbav:"likedFrom" json:"likedFrom"`
	LikedTo   string `dynamodbav:"likedTo" json:"likedTo"`
	CreatedAt string `dynamodbav:"createdAt" json:"createdAt"`
}

const (
	LikesTable   = "Likes"
	LikedToIndex = "likedTo-index"
)
