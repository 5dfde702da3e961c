//go:generate mockgen -destination mock_conversationrepo/mock_conversationrepo.go github.com/localfy/notify-server/repo/conversationrepo ConversationRepo

package conversationrepo

import (
	"context"
	"errors"

	"github.com/anyproto/any-sync/app"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/localfy/notify-server/db"
	"github.com/localfy/notify-server/domain"
)

const CName = "notify.conversationrepo"

const collName = "conversations"

var (
	ErrConversationNotFound = errors.New("conversation not found")
)

func New() ConversationRepo {
	return new(conversationRepo)
}

type ConversationRepo interface {
	GetParticipants(ctx context.Context, conversationId string) (userIds []string, err error)
	app.ComponentRunnable
}

type conversationRepo struct {
	coll *mongo.Collection
}

func (r *conversationRepo) Init(a *app.App) (err error) {
	r.coll = a.MustComponent(db.CName).(db.Database).Db().Collection(collName)
	return
}

func (r *conversationRepo) Name() (name string) {
	return CName
}

func (r *conversationRepo) Run(ctx context.Context) error {
	return nil
}

func (r *conversationRepo) GetParticipants(ctx context.Context, conversationId string) (userIds []string, err error) {
	var conv domain.Conversation
	err = r.coll.FindOne(ctx, bson.D{{Key: "_id", Value: conversationId}}).Decode(&conv)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrConversationNotFound
	}
	if err != nil {
		return nil, err
	}
	return conv.Participants, nil
}

func (r *conversationRepo) Close(ctx context.Context) (err error) {
	return nil
}
