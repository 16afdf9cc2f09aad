package evitadb

import (
	"github.com/platformbuilds/evitalab-core/internal/errs"
	pb "github.com/platformbuilds/evitalab-core/internal/grpc/evitapb"
	"github.com/platformbuilds/evitalab-core/internal/models"
)

// Every switch below fails on values it does not know. A newer server adding an
// enum constant must surface as an error, never as a silently wrong default.

func namingConvention(v pb.GrpcNamingConvention) (models.NamingConvention, error) {
	switch v {
	case pb.GrpcNamingConvention_CAMEL_CASE:
		return models.CamelCase, nil
	case pb.GrpcNamingConvention_PASCAL_CASE:
		return models.PascalCase, nil
	case pb.GrpcNamingConvention_SNAKE_CASE:
		return models.SnakeCase, nil
	case pb.GrpcNamingConvention_UPPER_SNAKE_CASE:
		return models.UpperSnakeCase, nil
	case pb.GrpcNamingConvention_KEBAB_CASE:
		return models.KebabCase, nil
	default:
		return "", errs.UnsupportedEnumValue("GrpcNamingConvention", int32(v))
	}
}

func attributeUniqueness(v pb.GrpcAttributeUniquenessType) (models.AttributeUniquenessType, error) {
	switch v {
	case pb.GrpcAttributeUniquenessType_NOT_UNIQUE:
		return models.AttributeNotUnique, nil
	case pb.GrpcAttributeUniquenessType_UNIQUE_WITHIN_COLLECTION:
		return models.AttributeUniqueWithinCollection, nil
	case pb.GrpcAttributeUniquenessType_UNIQUE_WITHIN_COLLECTION_LOCALE:
		return models.AttributeUniqueWithinCollectionLocale, nil
	default:
		return "", errs.UnsupportedEnumValue("GrpcAttributeUniquenessType", int32(v))
	}
}

func globalUniqueness(v pb.GrpcGlobalAttributeUniquenessType) (models.GlobalAttributeUniquenessType, error) {
	switch v {
	case pb.GrpcGlobalAttributeUniquenessType_NOT_GLOBALLY_UNIQUE:
		return models.GlobalAttributeNotUnique, nil
	case pb.GrpcGlobalAttributeUniquenessType_UNIQUE_WITHIN_CATALOG:
		return models.GlobalAttributeUniqueWithinCatalog, nil
	case pb.GrpcGlobalAttributeUniquenessType_UNIQUE_WITHIN_CATALOG_LOCALE:
		return models.GlobalAttributeUniqueWithinCatalogLocale, nil
	default:
		return "", errs.UnsupportedEnumValue("GrpcGlobalAttributeUniquenessType", int32(v))
	}
}

// cardinality maps NOT_SPECIFIED to a value the server did not provide.
func cardinality(v pb.GrpcCardinality) (models.Value[models.Cardinality], error) {
	switch v {
	case pb.GrpcCardinality_NOT_SPECIFIED:
		return models.NotSupported[models.Cardinality](), nil
	case pb.GrpcCardinality_ZERO_OR_ONE:
		return models.Of(models.CardinalityZeroOrOne), nil
	case pb.GrpcCardinality_EXACTLY_ONE:
		return models.Of(models.CardinalityExactlyOne), nil
	case pb.GrpcCardinality_ZERO_OR_MORE:
		return models.Of(models.CardinalityZeroOrMore), nil
	case pb.GrpcCardinality_ONE_OR_MORE:
		return models.Of(models.CardinalityOneOrMore), nil
	default:
		return models.NotSupported[models.Cardinality](), errs.UnsupportedEnumValue("GrpcCardinality", int32(v))
	}
}

func evolutionMode(v pb.GrpcEvolutionMode) (models.EvolutionMode, error) {
	switch v {
	case pb.GrpcEvolutionMode_ADDING_ATTRIBUTES:
		return models.EvolutionAddingAttributes, nil
	case pb.GrpcEvolutionMode_ADDING_ASSOCIATED_DATA:
		return models.EvolutionAddingAssociatedData, nil
	case pb.GrpcEvolutionMode_ADDING_REFERENCES:
		return models.EvolutionAddingReferences, nil
	case pb.GrpcEvolutionMode_ADDING_PRICES:
		return models.EvolutionAddingPrices, nil
	case pb.GrpcEvolutionMode_ADDING_LOCALES:
		return models.EvolutionAddingLocales, nil
	case pb.GrpcEvolutionMode_ADDING_CURRENCIES:
		return models.EvolutionAddingCurrencies, nil
	case pb.GrpcEvolutionMode_ADDING_HIERARCHY:
		return models.EvolutionAddingHierarchy, nil
	default:
		return "", errs.UnsupportedEnumValue("GrpcEvolutionMode", int32(v))
	}
}

func orderDirection(v pb.GrpcOrderDirection) (models.OrderDirection, error) {
	switch v {
	case pb.GrpcOrderDirection_ASC:
		return models.OrderAsc, nil
	case pb.GrpcOrderDirection_DESC:
		return models.OrderDesc, nil
	default:
		return "", errs.UnsupportedEnumValue("GrpcOrderDirection", int32(v))
	}
}

func orderBehaviour(v pb.GrpcOrderBehaviour) (models.OrderBehaviour, error) {
	switch v {
	case pb.GrpcOrderBehaviour_NULLS_FIRST:
		return models.NullsFirst, nil
	case pb.GrpcOrderBehaviour_NULLS_LAST:
		return models.NullsLast, nil
	default:
		return "", errs.UnsupportedEnumValue("GrpcOrderBehaviour", int32(v))
	}
}

func entityScope(v pb.GrpcEntityScope) (models.EntityScope, error) {
	switch v {
	case pb.GrpcEntityScope_SCOPE_LIVE:
		return models.ScopeLive, nil
	case pb.GrpcEntityScope_SCOPE_ARCHIVED:
		return models.ScopeArchived, nil
	default:
		return "", errs.UnsupportedEnumValue("GrpcEntityScope", int32(v))
	}
}

func priceInnerRecordHandling(v pb.GrpcPriceInnerRecordHandling) (models.PriceInnerRecordHandling, error) {
	switch v {
	case pb.GrpcPriceInnerRecordHandling_NONE:
		return models.PriceInnerRecordNone, nil
	case pb.GrpcPriceInnerRecordHandling_LOWEST_PRICE:
		return models.PriceInnerRecordLowestPrice, nil
	case pb.GrpcPriceInnerRecordHandling_SUM:
		return models.PriceInnerRecordSum, nil
	case pb.GrpcPriceInnerRecordHandling_UNKNOWN:
		return models.PriceInnerRecordUnknown, nil
	default:
		return "", errs.UnsupportedEnumValue("GrpcPriceInnerRecordHandling", int32(v))
	}
}

func catalogState(v pb.GrpcCatalogState) (models.CatalogState, error) {
	switch v {
	case pb.GrpcCatalogState_WARMING_UP:
		return models.CatalogWarmingUp, nil
	case pb.GrpcCatalogState_ALIVE:
		return models.CatalogAlive, nil
	case pb.GrpcCatalogState_INACTIVE:
		return models.CatalogInactive, nil
	case pb.GrpcCatalogState_CORRUPTED:
		return models.CatalogCorrupted, nil
	case pb.GrpcCatalogState_UNKNOWN_STATE:
		return models.CatalogUnknownState, nil
	default:
		return "", errs.UnsupportedEnumValue("GrpcCatalogState", int32(v))
	}
}

func taskState(v pb.GrpcTaskSimplifiedState) (models.TaskState, error) {
	switch v {
	case pb.GrpcTaskSimplifiedState_TASK_WAITING_FOR_PRECONDITION:
		return models.TaskWaitingForPrecondition, nil
	case pb.GrpcTaskSimplifiedState_TASK_QUEUED:
		return models.TaskQueued, nil
	case pb.GrpcTaskSimplifiedState_TASK_RUNNING:
		return models.TaskRunning, nil
	case pb.GrpcTaskSimplifiedState_TASK_FINISHED:
		return models.TaskFinished, nil
	case pb.GrpcTaskSimplifiedState_TASK_FAILED:
		return models.TaskFailed, nil
	default:
		return "", errs.UnsupportedEnumValue("GrpcTaskSimplifiedState", int32(v))
	}
}

func toGrpcTaskState(s models.TaskState) (pb.GrpcTaskSimplifiedState, error) {
	switch s {
	case models.TaskWaitingForPrecondition:
		return pb.GrpcTaskSimplifiedState_TASK_WAITING_FOR_PRECONDITION, nil
	case models.TaskQueued:
		return pb.GrpcTaskSimplifiedState_TASK_QUEUED, nil
	case models.TaskRunning:
		return pb.GrpcTaskSimplifiedState_TASK_RUNNING, nil
	case models.TaskFinished:
		return pb.GrpcTaskSimplifiedState_TASK_FINISHED, nil
	case models.TaskFailed:
		return pb.GrpcTaskSimplifiedState_TASK_FAILED, nil
	default:
		return 0, errs.UnsupportedEnumValue("TaskState", string(s))
	}
}

func taskTrait(v pb.GrpcTaskTrait) (models.TaskTrait, error) {
	switch v {
	case pb.GrpcTaskTrait_TASK_CAN_BE_STARTED:
		return models.TaskTraitCanBeStarted, nil
	case pb.GrpcTaskTrait_TASK_CAN_BE_CANCELLED:
		return models.TaskTraitCanBeCancelled, nil
	case pb.GrpcTaskTrait_TASK_NEEDS_TO_BE_STOPPED:
		return models.TaskTraitNeedsToBeStopped, nil
	default:
		return "", errs.UnsupportedEnumValue("GrpcTaskTrait", int32(v))
	}
}

func trafficRecordType(v pb.GrpcTrafficRecordingType) (models.TrafficRecordType, error) {
	switch v {
	case pb.GrpcTrafficRecordingType_SESSION_START:
		return models.TrafficSessionStart, nil
	case pb.GrpcTrafficRecordingType_SESSION_CLOSE:
		return models.TrafficSessionClose, nil
	case pb.GrpcTrafficRecordingType_QUERY:
		return models.TrafficQuery, nil
	case pb.GrpcTrafficRecordingType_FETCH:
		return models.TrafficFetch, nil
	case pb.GrpcTrafficRecordingType_ENRICHMENT:
		return models.TrafficEnrichment, nil
	case pb.GrpcTrafficRecordingType_MUTATION:
		return models.TrafficMutation, nil
	case pb.GrpcTrafficRecordingType_SOURCE_QUERY:
		return models.TrafficSourceQuery, nil
	case pb.GrpcTrafficRecordingType_SOURCE_QUERY_STATISTICS:
		return models.TrafficSourceQueryStatistics, nil
	default:
		return "", errs.UnsupportedEnumValue("GrpcTrafficRecordingType", int32(v))
	}
}

func toGrpcTrafficRecordType(t models.TrafficRecordType) (pb.GrpcTrafficRecordingType, error) {
	switch t {
	case models.TrafficSessionStart:
		return pb.GrpcTrafficRecordingType_SESSION_START, nil
	case models.TrafficSessionClose:
		return pb.GrpcTrafficRecordingType_SESSION_CLOSE, nil
	case models.TrafficQuery:
		return pb.GrpcTrafficRecordingType_QUERY, nil
	case models.TrafficFetch:
		return pb.GrpcTrafficRecordingType_FETCH, nil
	case models.TrafficEnrichment:
		return pb.GrpcTrafficRecordingType_ENRICHMENT, nil
	case models.TrafficMutation:
		return pb.GrpcTrafficRecordingType_MUTATION, nil
	case models.TrafficSourceQuery:
		return pb.GrpcTrafficRecordingType_SOURCE_QUERY, nil
	case models.TrafficSourceQueryStatistics:
		return pb.GrpcTrafficRecordingType_SOURCE_QUERY_STATISTICS, nil
	default:
		return 0, errs.UnsupportedEnumValue("TrafficRecordType", string(t))
	}
}
